package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/warfront/internal/model"
	"github.com/mcoot/warfront/internal/storage"
	"github.com/mcoot/warfront/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.BackendSuite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.Init(s.storage)
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) TestDocumentKeyLayout() {
	ctx := s.T().Context()
	s.Require().NoError(s.storage.Save(ctx, storage.Accounts, []byte(`{"accounts":{}}`)))

	s.True(s.mini.Exists("warfront:doc:accounts"))
	s.Zero(s.mini.TTL("warfront:doc:accounts"))
}

func (s *StorageSuite) TestUnavailableBackend() {
	s.mini.Close()

	store := storage.New(s.storage)
	err := store.View(s.T().Context(), func(tx *storage.Tx) error {
		_, err := tx.Accounts()
		return err
	}, storage.Accounts)
	s.ErrorIs(err, model.ErrUnavailable)
}
