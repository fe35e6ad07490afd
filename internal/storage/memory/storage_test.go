package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/warfront/internal/storage"
	"github.com/mcoot/warfront/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.BackendSuite
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.Init(New())
}

func (s *StorageSuite) TestLoadReturnsCopy() {
	ctx := s.T().Context()
	s.Require().NoError(s.Backend.Save(ctx, storage.Accounts, []byte(`{"accounts":{}}`)))

	data, err := s.Backend.Load(ctx, storage.Accounts)
	s.Require().NoError(err)
	data[0] = 'X'

	again, err := s.Backend.Load(ctx, storage.Accounts)
	s.Require().NoError(err)
	s.JSONEq(`{"accounts":{}}`, string(again))
}
