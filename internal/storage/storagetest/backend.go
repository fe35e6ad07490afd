// Package storagetest holds a conformance suite every storage.Backend runs.
package storagetest

import (
	"context"
	"sync"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/warfront/internal/model"
	"github.com/mcoot/warfront/internal/storage"
)

// BackendSuite exercises a Backend directly and through a Store.
// Embed it and call Init from SetupTest.
type BackendSuite struct {
	suite.Suite
	Backend storage.Backend
	ctx     context.Context
}

// Init must be called from the embedding suite's SetupTest
func (s *BackendSuite) Init(b storage.Backend) {
	s.Backend = b
	s.ctx = context.Background()
}

func (s *BackendSuite) TestLoadMissingDocument() {
	_, err := s.Backend.Load(s.ctx, storage.Accounts)
	s.ErrorIs(err, storage.ErrDocumentNotFound)
}

func (s *BackendSuite) TestEnsureCreatesOnce() {
	s.Require().NoError(s.Backend.Ensure(s.ctx, storage.Matches, []byte(`{"matches":{}}`)))
	s.Require().NoError(s.Backend.Save(s.ctx, storage.Matches, []byte(`{"matches":{"ABC":null}}`)))
	s.Require().NoError(s.Backend.Ensure(s.ctx, storage.Matches, []byte(`{"matches":{}}`)))

	data, err := s.Backend.Load(s.ctx, storage.Matches)
	s.Require().NoError(err)
	s.JSONEq(`{"matches":{"ABC":null}}`, string(data))
}

func (s *BackendSuite) TestSaveReplaces() {
	s.Require().NoError(s.Backend.Save(s.ctx, storage.Transactions, []byte(`{"transactions":[]}`)))
	s.Require().NoError(s.Backend.Save(s.ctx, storage.Transactions, []byte(`{"transactions":[{"id":"a"}]}`)))

	data, err := s.Backend.Load(s.ctx, storage.Transactions)
	s.Require().NoError(err)
	s.JSONEq(`{"transactions":[{"id":"a"}]}`, string(data))
}

func (s *BackendSuite) TestCollectionsAreIndependent() {
	s.Require().NoError(s.Backend.Save(s.ctx, storage.Accounts, []byte(`{"accounts":{}}`)))

	_, err := s.Backend.Load(s.ctx, storage.Matches)
	s.ErrorIs(err, storage.ErrDocumentNotFound)
}

func (s *BackendSuite) TestStoreRoundTrip() {
	store := storage.New(s.Backend)
	s.Require().NoError(store.EnsureAll(s.ctx))

	err := store.Update(s.ctx, func(tx *storage.Tx) error {
		book, err := tx.Accounts()
		if err != nil {
			return err
		}
		book.Accounts["alice"] = &model.Account{Username: "alice", Gold: 1000, Level: 1}
		tx.MarkChanged(storage.Accounts)
		return nil
	}, storage.Accounts)
	s.Require().NoError(err)

	var gold int64
	err = store.View(s.ctx, func(tx *storage.Tx) error {
		book, err := tx.Accounts()
		if err != nil {
			return err
		}
		acc, err := book.Get("alice")
		if err != nil {
			return err
		}
		gold = acc.Gold
		return nil
	}, storage.Accounts)
	s.Require().NoError(err)
	s.Equal(int64(1000), gold)
}

func (s *BackendSuite) TestStoreConcurrentUpdatesAreSerialized() {
	store := storage.New(s.Backend)

	const workers = 20
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Update(s.ctx, func(tx *storage.Tx) error {
				ledger, err := tx.Ledger()
				if err != nil {
					return err
				}
				ledger.Transactions = append(ledger.Transactions, model.TransactionRecord{Type: model.TransactionDevSend})
				tx.MarkChanged(storage.Transactions)
				return nil
			}, storage.Transactions)
		}()
	}
	wg.Wait()

	var count int
	err := store.View(s.ctx, func(tx *storage.Tx) error {
		ledger, err := tx.Ledger()
		if err != nil {
			return err
		}
		count = len(ledger.Transactions)
		return nil
	}, storage.Transactions)
	s.Require().NoError(err)
	s.Equal(workers, count)
}
