package gold

import (
	"context"
	"log/slog"
	"math"

	"github.com/mcoot/warfront/internal/dependencies/clock"
	"github.com/mcoot/warfront/internal/model"
	"github.com/mcoot/warfront/internal/services/ledger"
	"github.com/mcoot/warfront/internal/storage"
)

// Balance is the result of a currency operation
type Balance struct {
	Username string `json:"username"`
	Gold     int64  `json:"gold"`
}

// Service implements the developer-only currency operations
type Service struct {
	store  *storage.Store
	ledger *ledger.Service
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new gold Service
func New(store *storage.Store, ledger *ledger.Service, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		ledger: ledger,
		clock:  clock,
		logger: logger.With(slog.String("component", "gold-service")),
	}
}

// SetGold overwrites target's balance. An empty target means the actor.
func (s *Service) SetGold(ctx context.Context, actor, target string, amount int64) (*Balance, error) {
	if actor == "" {
		return nil, model.ErrInvalidSession
	}
	if amount < 0 {
		return nil, model.ErrInvalidAmount
	}
	if target == "" {
		target = actor
	}
	return s.apply(ctx, actor, target, amount, model.TransactionDevSet, func(acct *model.Account) error {
		acct.Gold = amount
		return nil
	})
}

// SendGold credits target with amount. No balance is debited.
func (s *Service) SendGold(ctx context.Context, actor, target string, amount int64) (*Balance, error) {
	if actor == "" {
		return nil, model.ErrInvalidSession
	}
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}
	return s.apply(ctx, actor, target, amount, model.TransactionDevSend, func(acct *model.Account) error {
		if amount > math.MaxInt64-acct.Gold {
			return model.ErrInvalidAmount
		}
		acct.Gold += amount
		return nil
	})
}

func (s *Service) apply(
	ctx context.Context,
	actor, target string,
	amount int64,
	typ model.TransactionType,
	mutate func(*model.Account) error,
) (*Balance, error) {
	var result Balance
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		book, err := tx.Accounts()
		if err != nil {
			return err
		}
		if err := requireDeveloper(book, actor); err != nil {
			return err
		}
		acct, err := book.Get(target)
		if err != nil {
			return err
		}

		if err := mutate(acct); err != nil {
			return err
		}
		acct.UpdatedAt = s.clock.Now()
		tx.MarkChanged(storage.Accounts)

		if _, err := s.ledger.Append(tx, typ, actor, target, amount); err != nil {
			return err
		}
		result = Balance{Username: acct.Username, Gold: acct.Gold}
		return nil
	}, storage.Accounts, storage.Transactions)
	if err != nil {
		return nil, err
	}

	s.logger.Info("gold updated",
		slog.String("type", string(typ)),
		slog.String("actor", actor),
		slog.String("target", target),
		slog.Int64("amount", amount),
		slog.Int64("balance", result.Gold),
	)
	return &result, nil
}

// Transactions returns the ledger to a developer
func (s *Service) Transactions(ctx context.Context, actor string) ([]model.TransactionRecord, error) {
	if actor == "" {
		return nil, model.ErrInvalidSession
	}
	var out []model.TransactionRecord
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		book, err := tx.Accounts()
		if err != nil {
			return err
		}
		if err := requireDeveloper(book, actor); err != nil {
			return err
		}
		out, err = ledger.ListIn(tx)
		return err
	}, storage.Accounts, storage.Transactions)
	return out, err
}

func requireDeveloper(book *model.AccountBook, actor string) error {
	acct, err := book.Get(actor)
	if err != nil {
		return err
	}
	if !acct.IsDeveloper() {
		return model.ErrNotDeveloper
	}
	return nil
}
