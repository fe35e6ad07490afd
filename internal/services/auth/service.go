package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/warfront/internal/dependencies/clock"
	"github.com/mcoot/warfront/internal/model"
	"github.com/mcoot/warfront/internal/storage"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 24
)

// DeveloperConfig describes the privileged account provisioned at startup
type DeveloperConfig struct {
	Username string
	Password string
	Gold     int64
}

// Config holds configuration for the auth service
type Config struct {
	PasswordCost      int
	MinPasswordLength int
	Developer         DeveloperConfig
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		PasswordCost:      bcrypt.DefaultCost,
		MinPasswordLength: 6,
		Developer: DeveloperConfig{
			Username: "developer",
			Password: "developer",
			Gold:     1_000_000,
		},
	}
}

// Service handles registration, credential checks and account reads
type Service struct {
	store  *storage.Store
	clock  clock.Clock
	logger *slog.Logger
	cfg    Config

	// compared against when the username is unknown so both paths cost a bcrypt check
	dummyHash []byte
}

// New creates a new auth Service
func New(store *storage.Store, clock clock.Clock, logger *slog.Logger, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.PasswordCost == 0 {
		cfg.PasswordCost = defaults.PasswordCost
	}
	if cfg.MinPasswordLength == 0 {
		cfg.MinPasswordLength = defaults.MinPasswordLength
	}
	logger = logger.With(slog.String("component", "auth-service"))
	if cfg.PasswordCost > bcrypt.MaxCost {
		logger.Warn("password cost out of range, using default",
			slog.Int("cost", cfg.PasswordCost),
			slog.Int("default", defaults.PasswordCost),
		)
		cfg.PasswordCost = defaults.PasswordCost
	}
	// below MinCost bcrypt itself substitutes DefaultCost, so this cannot fail
	dummy, _ := bcrypt.GenerateFromPassword([]byte("warfront-dummy-password"), cfg.PasswordCost)
	return &Service{
		store:     store,
		clock:     clock,
		logger:    logger,
		cfg:       cfg,
		dummyHash: dummy,
	}
}

// ValidateUsername checks the length and whitespace rules
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return model.ErrInvalidUsername
	}
	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return model.ErrInvalidUsername
	}
	return nil
}

// Register creates a player account with the starting values
func (s *Service) Register(ctx context.Context, username, password string) (*model.Account, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(password) < s.cfg.MinPasswordLength {
		return nil, model.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.PasswordCost)
	if err != nil {
		return nil, err
	}

	var created model.Account
	err = s.store.Update(ctx, func(tx *storage.Tx) error {
		book, err := tx.Accounts()
		if err != nil {
			return err
		}
		if _, exists := book.Accounts[username]; exists {
			return model.ErrUsernameExists
		}
		acct := model.NewAccount(username, string(hash), s.clock.Now())
		book.Accounts[username] = acct
		tx.MarkChanged(storage.Accounts)
		created = *acct
		return nil
	}, storage.Accounts)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account registered", slog.String("username", username))
	return &created, nil
}

// Authenticate verifies credentials and returns the account
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.Account, error) {
	acct, err := s.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return acct, nil
}

// GetAccount returns a copy of the account for username
func (s *Service) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	var found model.Account
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		book, err := tx.Accounts()
		if err != nil {
			return err
		}
		acct, err := book.Get(username)
		if err != nil {
			return err
		}
		found = *acct
		return nil
	}, storage.Accounts)
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// AccountExists reports whether username is a registered account
func (s *Service) AccountExists(ctx context.Context, username string) (bool, error) {
	_, err := s.GetAccount(ctx, username)
	if errors.Is(err, model.ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// EnsureDeveloper provisions the developer account if it does not exist.
// An existing account is left untouched.
func (s *Service) EnsureDeveloper(ctx context.Context) error {
	dev := s.cfg.Developer
	if err := ValidateUsername(dev.Username); err != nil {
		return err
	}

	return s.store.Update(ctx, func(tx *storage.Tx) error {
		book, err := tx.Accounts()
		if err != nil {
			return err
		}
		if _, exists := book.Accounts[dev.Username]; exists {
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(dev.Password), s.cfg.PasswordCost)
		if err != nil {
			return err
		}
		acct := model.NewAccount(dev.Username, string(hash), s.clock.Now())
		acct.Gold = dev.Gold
		acct.Role = model.RoleDeveloper
		book.Accounts[dev.Username] = acct
		tx.MarkChanged(storage.Accounts)

		s.logger.Info("developer account provisioned", slog.String("username", dev.Username))
		return nil
	}, storage.Accounts)
}

// UpdateStats stores gameplay counters reported for the account's own matches
func (s *Service) UpdateStats(ctx context.Context, username string, stats model.PlayerStats) (*model.Account, error) {
	if stats.XP < 0 || stats.Wins < 0 || stats.Losses < 0 ||
		stats.TotalMatches < 0 || stats.TotalDeployedUnits < 0 || stats.Level < 1 {
		return nil, model.ErrInvalidStats
	}

	var updated model.Account
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		book, err := tx.Accounts()
		if err != nil {
			return err
		}
		acct, err := book.Get(username)
		if err != nil {
			return err
		}
		acct.XP = stats.XP
		acct.Level = stats.Level
		acct.Wins = stats.Wins
		acct.Losses = stats.Losses
		acct.TotalMatches = stats.TotalMatches
		acct.TotalDeployedUnits = stats.TotalDeployedUnits
		acct.UpdatedAt = s.clock.Now()
		tx.MarkChanged(storage.Accounts)
		updated = *acct
		return nil
	}, storage.Accounts)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
