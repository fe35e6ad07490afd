package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/warfront/internal/api"
	"github.com/mcoot/warfront/internal/api/middleware"
	"github.com/mcoot/warfront/internal/config"
	"github.com/mcoot/warfront/internal/dependencies/clock"
	"github.com/mcoot/warfront/internal/dependencies/random"
	"github.com/mcoot/warfront/internal/services/auth"
	"github.com/mcoot/warfront/internal/services/gold"
	"github.com/mcoot/warfront/internal/services/ledger"
	"github.com/mcoot/warfront/internal/services/lobby"
	"github.com/mcoot/warfront/internal/services/session"
	"github.com/mcoot/warfront/internal/storage"
	"github.com/mcoot/warfront/internal/storage/memory"
	redisstorage "github.com/mcoot/warfront/internal/storage/redis"
	sqlstorage "github.com/mcoot/warfront/internal/storage/sql"
)

// App contains all wired application components
type App struct {
	// Storage
	Store *storage.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	AuthService     *auth.Service
	Sessions        *session.Manager
	Ledger          *ledger.Service
	GoldService     *gold.Service
	LobbyController *lobby.Controller
	RateLimiter     *middleware.RateLimiter

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger

	Storage   config.StorageConfig
	Session   config.SessionConfig
	Auth      auth.Config
	Lobby     lobby.Config
	RateLimit config.RateLimitConfig
}

// FromConfig converts the loaded process configuration into a factory Config
func FromConfig(c *config.Config, logger *slog.Logger) Config {
	session := c.Session
	// An empty URL with redis storage reuses the storage client
	if c.Storage.Type != config.StorageRedis || (session.RedisURL != "" && session.RedisURL != c.Storage.RedisURL) {
		session.RedisURL = c.SessionRedisURL()
	} else {
		session.RedisURL = ""
	}
	return Config{
		Logger:  logger,
		Storage: c.Storage,
		Session: session,
		Auth: auth.Config{
			PasswordCost: c.Auth.PasswordCost,
			Developer: auth.DeveloperConfig{
				Username: c.Developer.Username,
				Password: c.Developer.Password,
				Gold:     c.Developer.Gold,
			},
		},
		Lobby: lobby.Config{
			StaleAfter:   c.Lobby.StaleAfter,
			PersistSweep: c.Lobby.PersistSweep,
		},
		RateLimit: c.RateLimit,
	}
}

// New creates a new application with all dependencies wired, prepares every
// collection and provisions the developer account
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	backend, err := newBackend(cfg.Storage)
	if err != nil {
		return nil, err
	}

	clk := clock.New()
	rnd := random.New()

	sessionStore, sessionCloser, err := newSessionStore(cfg.Session, backend, clk)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	app := newWithDependencies(backend, sessionStore, clk, rnd, logger, cfg)
	if sessionCloser != nil {
		app.closers = append(app.closers, sessionCloser)
	}

	if err := app.Init(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func newBackend(cfg config.StorageConfig) (storage.Backend, error) {
	switch cfg.Type {
	case "", config.StorageMemory:
		return memory.New(), nil
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		return redisstorage.New(redisCfg)
	case config.StorageSQLite:
		return sqlstorage.OpenSQLite(cfg.SQLitePath)
	case config.StorageMySQL:
		return sqlstorage.OpenMySQL(cfg.MySQLDSN, cfg.MySQLMaxOpen, cfg.MySQLMaxIdle, cfg.MySQLMaxLife)
	default:
		return nil, fmt.Errorf("invalid storage type %q", cfg.Type)
	}
}

// newSessionStore picks the session backend. A redis session store shares the
// document backend's client when both point at redis.
func newSessionStore(cfg config.SessionConfig, backend storage.Backend, clk clock.Clock) (session.Store, io.Closer, error) {
	switch cfg.Backend {
	case "", config.StorageMemory:
		return session.NewMemoryStore(clk), nil, nil
	case config.StorageRedis:
		if rs, ok := backend.(*redisstorage.Storage); ok && cfg.RedisURL == "" {
			return session.NewRedisStore(rs.Client(), clk), nil, nil
		}
		if cfg.RedisURL == "" {
			return nil, nil, errors.New("session.redis_url required when session backend is redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		client, err := redisstorage.NewClient(redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, clk), client, nil
	default:
		return nil, nil, fmt.Errorf("invalid session backend %q", cfg.Backend)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	backend storage.Backend,
	sessionStore session.Store,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
	cfg Config,
) *App {
	store := storage.New(backend)

	authService := auth.New(store, clk, logger, cfg.Auth)
	sessions := session.NewManager(sessionStore, authService, clk, rnd, logger, session.Config{Duration: cfg.Session.Duration})
	ledgerService := ledger.New(store, clk)
	goldService := gold.New(store, ledgerService, clk, logger)
	lobbyController := lobby.NewController(store, clk, rnd, logger, cfg.Lobby)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 && cfg.RateLimit.Burst > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	return &App{
		Store:           store,
		Clock:           clk,
		Random:          rnd,
		Logger:          logger,
		AuthService:     authService,
		Sessions:        sessions,
		Ledger:          ledgerService,
		GoldService:     goldService,
		LobbyController: lobbyController,
		RateLimiter:     limiter,
	}
}

// Init creates missing collections and the developer account. Safe to call
// on every start.
func (a *App) Init(ctx context.Context) error {
	if err := a.Store.EnsureAll(ctx); err != nil {
		return fmt.Errorf("ensure collections: %w", err)
	}
	if err := a.AuthService.EnsureDeveloper(ctx); err != nil {
		return fmt.Errorf("provision developer: %w", err)
	}
	return nil
}

// Handler builds the API router for this app
func (a *App) Handler() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:          a.Logger,
		AuthService:     a.AuthService,
		Sessions:        a.Sessions,
		LobbyController: a.LobbyController,
		GoldService:     a.GoldService,
		RateLimiter:     a.RateLimiter,
	})
}

// RunMaintenance sweeps expired sessions and idle rate limiter entries until ctx is done
func (a *App) RunMaintenance(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Sessions.CleanExpired(ctx)
			if a.RateLimiter != nil {
				a.RateLimiter.Prune(a.Clock.Now().Add(-interval))
			}
		}
	}
}

// Close releases storage connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	errs = append(errs, a.Store.Close())
	return errors.Join(errs...)
}
