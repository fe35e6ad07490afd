// Package ledger appends currency audit records. Business rules are the
// caller's responsibility; the ledger only guarantees ordering and immutability.
package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/mcoot/warfront/internal/dependencies/clock"
	"github.com/mcoot/warfront/internal/model"
	"github.com/mcoot/warfront/internal/storage"
)

// Service writes to and reads from the transactions collection
type Service struct {
	store *storage.Store
	clock clock.Clock
}

// New creates a new ledger Service
func New(store *storage.Store, clock clock.Clock) *Service {
	return &Service{store: store, clock: clock}
}

// Append records a movement inside tx, which must hold the transactions lock.
// Timestamps never go backwards relative to the previous entry.
func (s *Service) Append(tx *storage.Tx, typ model.TransactionType, from, to string, amount int64) (model.TransactionRecord, error) {
	ledger, err := tx.Ledger()
	if err != nil {
		return model.TransactionRecord{}, err
	}

	ts := s.clock.Now().UTC()
	if n := len(ledger.Transactions); n > 0 {
		if last := ledger.Transactions[n-1].Timestamp; ts.Before(last) {
			ts = last
		}
	}

	rec := model.TransactionRecord{
		ID:        uuid.NewString(),
		Type:      typ,
		From:      from,
		To:        to,
		Amount:    amount,
		Timestamp: ts,
	}
	ledger.Transactions = append(ledger.Transactions, rec)
	tx.MarkChanged(storage.Transactions)
	return rec, nil
}

// List returns every record in append order
func (s *Service) List(ctx context.Context) ([]model.TransactionRecord, error) {
	var out []model.TransactionRecord
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		var err error
		out, err = ListIn(tx)
		return err
	}, storage.Transactions)
	return out, err
}

// ListIn returns a copy of every record using an open transaction
func ListIn(tx *storage.Tx) ([]model.TransactionRecord, error) {
	ledger, err := tx.Ledger()
	if err != nil {
		return nil, err
	}
	return append([]model.TransactionRecord{}, ledger.Transactions...), nil
}
