package factory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/warfront/internal/config"
	"github.com/mcoot/warfront/internal/model"
	"github.com/mcoot/warfront/internal/services/lobby"
	"github.com/mcoot/warfront/internal/storage"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) register(username string) string {
	acct, err := s.app.AuthService.Register(s.ctx, username, "password123")
	s.Require().NoError(err)
	sess, err := s.app.Sessions.Login(s.ctx, acct.Username)
	s.Require().NoError(err)
	return sess.Token
}

func (s *IntegrationSuite) user(token string) string {
	username, err := s.app.Sessions.CurrentUser(s.ctx, token)
	s.Require().NoError(err)
	return username
}

// Test: accounts, sessions, lobby and currency working together
func (s *IntegrationSuite) TestCompleteMatchmakingFlow() {
	s.app.MockRandom.QueueString("LOBBY1")

	alice := s.register("alice")
	bob := s.register("bob")

	// Step 1: Alice hosts a 1v1
	l, err := s.app.LobbyController.CreateLobby(s.ctx, s.user(alice), lobby.CreateParams{
		Map: "desert_siege", Mode: "1v1", GameTime: 900,
	})
	s.Require().NoError(err)
	s.Equal(model.LobbyID("LOBBY1"), l.ID)

	// Step 2: Bob joins and both pick teams
	_, err = s.app.LobbyController.JoinLobby(s.ctx, s.user(bob), l.ID)
	s.Require().NoError(err)
	_, err = s.app.LobbyController.SetTeam(s.ctx, "alice", l.ID, "blue")
	s.Require().NoError(err)
	_, err = s.app.LobbyController.SetTeam(s.ctx, "bob", l.ID, "red")
	s.Require().NoError(err)

	// Step 3: Start
	started, err := s.app.LobbyController.StartMatch(s.ctx, "alice", l.ID)
	s.Require().NoError(err)
	s.Equal(model.LobbyStatusInProgress, started.Status)

	// Step 4: Both see the active match
	for _, u := range []string{"alice", "bob"} {
		active, err := s.app.LobbyController.ActiveMatch(s.ctx, u)
		s.Require().NoError(err)
		s.Require().NotNil(active)
		s.Equal(l.ID, active.ID)
	}

	// Step 5: Developer rewards the winner
	bal, err := s.app.GoldService.SendGold(s.ctx, TestDeveloperUsername, "alice", 500)
	s.Require().NoError(err)
	s.Equal(int64(1500), bal.Gold)

	records, err := s.app.Ledger.List(s.ctx)
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *IntegrationSuite) TestInitIsIdempotent() {
	_, err := s.app.GoldService.SetGold(s.ctx, TestDeveloperUsername, "", 3)
	s.Require().NoError(err)

	s.Require().NoError(s.app.Init(s.ctx))

	dev, err := s.app.AuthService.GetAccount(s.ctx, TestDeveloperUsername)
	s.Require().NoError(err)
	s.Equal(int64(3), dev.Gold)
	s.True(dev.IsDeveloper())
}

func (s *IntegrationSuite) TestCollectionsEnsuredAtStart() {
	for _, c := range storage.Collections {
		_, err := s.app.Backend.Load(s.ctx, c)
		s.NoError(err, string(c))
	}
}

func (s *IntegrationSuite) TestSessionsSurviveUntilExpiry() {
	token := s.register("carol")

	s.app.MockClock.Advance(6 * 24 * time.Hour)
	s.Equal("carol", s.user(token))

	s.app.MockClock.Advance(25 * time.Hour)
	_, err := s.app.Sessions.CurrentUser(s.ctx, token)
	s.ErrorIs(err, model.ErrInvalidSession)
}

// NewSuite covers the production constructor on its file-backed backend
type NewSuite struct {
	suite.Suite
}

func TestNewSuite(t *testing.T) {
	suite.Run(t, new(NewSuite))
}

func (s *NewSuite) TestNewWithSQLite() {
	ctx := context.Background()
	cfg := Config{
		Storage: config.StorageConfig{
			Type:       config.StorageSQLite,
			SQLitePath: s.T().TempDir() + "/warfront.db",
		},
		Session: config.SessionConfig{Backend: config.StorageMemory, Duration: time.Hour},
		Lobby:   lobby.DefaultConfig(),
	}
	cfg.Auth.PasswordCost = 4
	cfg.Auth.Developer.Username = "devuser"
	cfg.Auth.Developer.Password = "devpass"
	cfg.Auth.Developer.Gold = 10

	app, err := New(ctx, cfg)
	s.Require().NoError(err)

	dev, err := app.AuthService.GetAccount(ctx, "devuser")
	s.Require().NoError(err)
	s.Equal(int64(10), dev.Gold)
	s.Require().NoError(app.Close())

	// a second start keeps the stored account
	app, err = New(ctx, cfg)
	s.Require().NoError(err)
	defer func() { _ = app.Close() }()
	_, err = app.AuthService.Authenticate(ctx, "devuser", "devpass")
	s.NoError(err)
}

func (s *NewSuite) TestNewRejectsUnknownStorage() {
	_, err := New(context.Background(), Config{Storage: config.StorageConfig{Type: "tape"}})
	s.Error(err)
}

func (s *NewSuite) TestNewWithRedisSharesClient() {
	mini := miniredis.RunT(s.T())
	ctx := context.Background()

	cfg := FromConfig(&config.Config{
		Storage:   config.StorageConfig{Type: config.StorageRedis, RedisURL: "redis://" + mini.Addr()},
		Session:   config.SessionConfig{Backend: config.StorageRedis, Duration: time.Hour},
		Auth:      config.AuthConfig{PasswordCost: 4},
		Developer: config.DeveloperConfig{Username: "devuser", Password: "devpass", Gold: 5},
		Lobby:     config.LobbyConfig{StaleAfter: time.Minute},
	}, nil)
	s.Empty(cfg.Session.RedisURL)

	app, err := New(ctx, cfg)
	s.Require().NoError(err)
	defer func() { _ = app.Close() }()

	sess, err := app.Sessions.Login(ctx, "devuser")
	s.Require().NoError(err)
	s.True(mini.Exists("warfront:session:" + sess.Token))
	s.True(mini.Exists("warfront:doc:accounts"))
}

func (s *NewSuite) TestFromConfigSessionURL() {
	c := &config.Config{
		Storage: config.StorageConfig{Type: config.StorageMemory, RedisURL: "redis://cache:6379"},
		Session: config.SessionConfig{Backend: config.StorageRedis},
	}
	s.Equal("redis://cache:6379", FromConfig(c, nil).Session.RedisURL)

	c.Storage.Type = config.StorageRedis
	c.Session.RedisURL = "redis://sessions:6379"
	s.Equal("redis://sessions:6379", FromConfig(c, nil).Session.RedisURL)
}
