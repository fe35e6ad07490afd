package gold

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/warfront/internal/dependencies/mocks"
	"github.com/mcoot/warfront/internal/model"
	"github.com/mcoot/warfront/internal/services/auth"
	"github.com/mcoot/warfront/internal/services/ledger"
	"github.com/mcoot/warfront/internal/storage"
	"github.com/mcoot/warfront/internal/storage/memory"
	"github.com/mcoot/warfront/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	store   *storage.Store
	clock   *mocks.MockClock
	auth    *auth.Service
	ledger  *ledger.Service
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = storage.New(memory.New())
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	logger := testutil.NopLogger()

	cfg := auth.DefaultConfig()
	cfg.PasswordCost = bcrypt.MinCost
	cfg.Developer = auth.DeveloperConfig{Username: "dev", Password: "devpass", Gold: 1_000_000}
	s.auth = auth.New(s.store, s.clock, logger, cfg)
	s.Require().NoError(s.auth.EnsureDeveloper(s.ctx))

	_, err := s.auth.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.ledger = ledger.New(s.store, s.clock)
	s.service = New(s.store, s.ledger, s.clock, logger)
}

func (s *ServiceSuite) gold(username string) int64 {
	acct, err := s.auth.GetAccount(s.ctx, username)
	s.Require().NoError(err)
	return acct.Gold
}

func (s *ServiceSuite) ledgerLen() int {
	records, err := s.ledger.List(s.ctx)
	s.Require().NoError(err)
	return len(records)
}

// SetGold tests

func (s *ServiceSuite) TestSetGoldOnTarget() {
	bal, err := s.service.SetGold(s.ctx, "dev", "alice", 42)
	s.Require().NoError(err)
	s.Equal(&Balance{Username: "alice", Gold: 42}, bal)
	s.Equal(int64(42), s.gold("alice"))

	records, err := s.ledger.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(model.TransactionDevSet, records[0].Type)
	s.Equal("dev", records[0].From)
	s.Equal("alice", records[0].To)
	s.Equal(int64(42), records[0].Amount)
}

func (s *ServiceSuite) TestSetGoldDefaultsToActor() {
	bal, err := s.service.SetGold(s.ctx, "dev", "", 7)
	s.Require().NoError(err)
	s.Equal("dev", bal.Username)
	s.Equal(int64(7), s.gold("dev"))
}

func (s *ServiceSuite) TestSetGoldZeroAllowed() {
	_, err := s.service.SetGold(s.ctx, "dev", "alice", 0)
	s.Require().NoError(err)
	s.Zero(s.gold("alice"))
}

func (s *ServiceSuite) TestSetGoldChecks() {
	_, err := s.service.SetGold(s.ctx, "", "alice", 5)
	s.ErrorIs(err, model.ErrUnauthenticated)

	_, err = s.service.SetGold(s.ctx, "dev", "alice", -1)
	s.ErrorIs(err, model.ErrInvalidInput)

	_, err = s.service.SetGold(s.ctx, "ghost", "alice", 5)
	s.ErrorIs(err, model.ErrNotFound)

	_, err = s.service.SetGold(s.ctx, "alice", "alice", 5)
	s.ErrorIs(err, model.ErrForbidden)

	_, err = s.service.SetGold(s.ctx, "dev", "ghost", 5)
	s.ErrorIs(err, model.ErrAccountNotFound)

	s.Equal(int64(1000), s.gold("alice"))
	s.Zero(s.ledgerLen())
}

// SendGold tests

func (s *ServiceSuite) TestSendGoldMints() {
	bal, err := s.service.SendGold(s.ctx, "dev", "alice", 250)
	s.Require().NoError(err)
	s.Equal(int64(1250), bal.Gold)

	s.Equal(int64(1_000_000), s.gold("dev"))

	records, err := s.ledger.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(model.TransactionDevSend, records[0].Type)
}

func (s *ServiceSuite) TestSendGoldChecks() {
	_, err := s.service.SendGold(s.ctx, "dev", "alice", 0)
	s.ErrorIs(err, model.ErrInvalidAmount)

	_, err = s.service.SendGold(s.ctx, "alice", "dev", 10)
	s.ErrorIs(err, model.ErrNotDeveloper)

	_, err = s.service.SendGold(s.ctx, "dev", "", 10)
	s.ErrorIs(err, model.ErrAccountNotFound)

	// a credit that would overflow the balance is refused
	_, err = s.service.SendGold(s.ctx, "dev", "alice", math.MaxInt64)
	s.ErrorIs(err, model.ErrInvalidAmount)
	s.Equal(int64(1000), s.gold("alice"))

	s.Zero(s.ledgerLen())
}

func (s *ServiceSuite) TestSendGoldUpToMaxBalance() {
	bal, err := s.service.SendGold(s.ctx, "dev", "alice", math.MaxInt64-1000)
	s.Require().NoError(err)
	s.Equal(int64(math.MaxInt64), bal.Gold)

	_, err = s.service.SendGold(s.ctx, "dev", "alice", 1)
	s.ErrorIs(err, model.ErrInvalidAmount)
	s.Equal(int64(math.MaxInt64), s.gold("alice"))
	s.Equal(1, s.ledgerLen())
}

func (s *ServiceSuite) TestConcurrentSendsAreNotLost() {
	const workers = 25
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.SendGold(s.ctx, "dev", "alice", 2)
			s.NoError(err)
		}()
	}
	wg.Wait()

	s.Equal(int64(1000+2*workers), s.gold("alice"))
	s.Equal(workers, s.ledgerLen())
}

// Transactions tests

func (s *ServiceSuite) TestTransactionsDeveloperOnly() {
	_, _ = s.service.SendGold(s.ctx, "dev", "alice", 1)

	records, err := s.service.Transactions(s.ctx, "dev")
	s.Require().NoError(err)
	s.Len(records, 1)

	_, err = s.service.Transactions(s.ctx, "alice")
	s.ErrorIs(err, model.ErrNotDeveloper)
}
