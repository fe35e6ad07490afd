package storage_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/warfront/internal/model"
	"github.com/mcoot/warfront/internal/storage"
	"github.com/mcoot/warfront/internal/storage/memory"
)

// recordingBackend wraps a memory backend, recording saves and failing on demand
type recordingBackend struct {
	*memory.Storage
	mu       sync.Mutex
	saves    []storage.Collection
	failLoad bool
	failSave storage.Collection
}

func (b *recordingBackend) Load(ctx context.Context, c storage.Collection) ([]byte, error) {
	if b.failLoad {
		return nil, errors.New("connection refused")
	}
	return b.Storage.Load(ctx, c)
}

func (b *recordingBackend) Save(ctx context.Context, c storage.Collection, data []byte) error {
	if c == b.failSave {
		return errors.New("disk full")
	}
	b.mu.Lock()
	b.saves = append(b.saves, c)
	b.mu.Unlock()
	return b.Storage.Save(ctx, c, data)
}

type StoreSuite struct {
	suite.Suite
	backend *recordingBackend
	store   *storage.Store
	ctx     context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.backend = &recordingBackend{Storage: memory.New()}
	s.store = storage.New(s.backend)
	s.ctx = context.Background()
}

func (s *StoreSuite) TestMissingDocumentGetsDefaultShape() {
	err := s.store.View(s.ctx, func(tx *storage.Tx) error {
		book, err := tx.Matches()
		s.Require().NoError(err)
		s.NotNil(book.Matches)
		s.Empty(book.Matches)

		ledger, err := tx.Ledger()
		s.Require().NoError(err)
		s.NotNil(ledger.Transactions)
		return nil
	}, storage.Matches, storage.Transactions)
	s.Require().NoError(err)

	data, err := s.backend.Storage.Load(s.ctx, storage.Matches)
	s.Require().NoError(err)
	s.JSONEq(`{"matches":{}}`, string(data))
}

func (s *StoreSuite) TestUpdateSavesChangedInLockOrder() {
	err := s.store.Update(s.ctx, func(tx *storage.Tx) error {
		tx.MarkChanged(storage.Matches)
		tx.MarkChanged(storage.Accounts)
		if _, err := tx.Matches(); err != nil {
			return err
		}
		_, err := tx.Accounts()
		return err
	}, storage.Matches, storage.Accounts)
	s.Require().NoError(err)

	s.Equal([]storage.Collection{storage.Accounts, storage.Matches}, s.backend.saves)
}

func (s *StoreSuite) TestUpdateSkipsUnchanged() {
	err := s.store.Update(s.ctx, func(tx *storage.Tx) error {
		_, err := tx.Accounts()
		return err
	}, storage.Accounts)
	s.Require().NoError(err)
	s.Empty(s.backend.saves)
}

func (s *StoreSuite) TestUpdateDiscardsOnError() {
	boom := errors.New("boom")
	err := s.store.Update(s.ctx, func(tx *storage.Tx) error {
		book, err := tx.Accounts()
		if err != nil {
			return err
		}
		book.Accounts["alice"] = &model.Account{Username: "alice"}
		tx.MarkChanged(storage.Accounts)
		return boom
	}, storage.Accounts)
	s.ErrorIs(err, boom)
	s.Empty(s.backend.saves)

	err = s.store.View(s.ctx, func(tx *storage.Tx) error {
		book, err := tx.Accounts()
		if err != nil {
			return err
		}
		_, err = book.Get("alice")
		return err
	}, storage.Accounts)
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StoreSuite) TestViewRejectsChanges() {
	err := s.store.View(s.ctx, func(tx *storage.Tx) error {
		tx.MarkChanged(storage.Accounts)
		return nil
	}, storage.Accounts)
	s.Error(err)
	s.Empty(s.backend.saves)
}

func (s *StoreSuite) TestUnlockedCollectionRejected() {
	err := s.store.View(s.ctx, func(tx *storage.Tx) error {
		_, err := tx.Matches()
		return err
	}, storage.Accounts)
	s.Error(err)
}

func (s *StoreSuite) TestUnknownCollectionRejected() {
	err := s.store.View(s.ctx, func(tx *storage.Tx) error { return nil }, storage.Collection("bogus"))
	s.Error(err)

	err = s.store.View(s.ctx, func(tx *storage.Tx) error { return nil })
	s.Error(err)
}

func (s *StoreSuite) TestLoadFailureIsUnavailable() {
	s.backend.failLoad = true
	err := s.store.View(s.ctx, func(tx *storage.Tx) error {
		_, err := tx.Accounts()
		return err
	}, storage.Accounts)
	s.ErrorIs(err, model.ErrUnavailable)
}

func (s *StoreSuite) TestSaveFailureIsUnavailable() {
	s.backend.failSave = storage.Transactions
	err := s.store.Update(s.ctx, func(tx *storage.Tx) error {
		tx.MarkChanged(storage.Transactions)
		_, err := tx.Ledger()
		return err
	}, storage.Transactions)
	s.ErrorIs(err, model.ErrUnavailable)
}

func (s *StoreSuite) TestDocumentCachedWithinTransaction() {
	err := s.store.Update(s.ctx, func(tx *storage.Tx) error {
		first, err := tx.Accounts()
		if err != nil {
			return err
		}
		first.Accounts["bob"] = &model.Account{Username: "bob"}

		second, err := tx.Accounts()
		if err != nil {
			return err
		}
		s.Same(first, second)
		return nil
	}, storage.Accounts)
	s.Require().NoError(err)
}
