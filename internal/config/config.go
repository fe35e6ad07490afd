// Package config loads process configuration from an optional YAML file,
// a .env file and WARFRONT_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix is prepended to every environment override, e.g. WARFRONT_SERVER_PORT
const EnvPrefix = "WARFRONT"

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
	StorageMySQL  = "mysql"
)

// Config is the process configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Session   SessionConfig   `mapstructure:"session"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Developer DeveloperConfig `mapstructure:"developer"`
	Lobby     LobbyConfig     `mapstructure:"lobby"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig selects the log level and handler
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // json | text
}

// StorageConfig selects the document backend and its connection settings
type StorageConfig struct {
	Type         string        `mapstructure:"type"` // memory | redis | sqlite | mysql
	RedisURL     string        `mapstructure:"redis_url"`
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
}

// SessionConfig holds session lifetime and store settings
type SessionConfig struct {
	Backend       string        `mapstructure:"backend"` // memory | redis
	Duration      time.Duration `mapstructure:"duration"`
	RedisURL      string        `mapstructure:"redis_url"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// AuthConfig holds password hashing settings
type AuthConfig struct {
	PasswordCost int `mapstructure:"password_cost"`
}

// DeveloperConfig describes the developer account provisioned at startup
type DeveloperConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Gold     int64  `mapstructure:"gold"`
}

// LobbyConfig holds lobby sweep settings
type LobbyConfig struct {
	StaleAfter   time.Duration `mapstructure:"stale_after"`
	PersistSweep bool          `mapstructure:"persist_sweep"`
}

// RateLimitConfig throttles the credential endpoints; zero disables it
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("storage.type", StorageMemory)
	v.SetDefault("storage.redis_url", "redis://localhost:6379")
	v.SetDefault("storage.sqlite_path", "./data/warfront.db")
	v.SetDefault("storage.mysql_dsn", "")
	v.SetDefault("storage.mysql_max_open", 20)
	v.SetDefault("storage.mysql_max_idle", 5)
	v.SetDefault("storage.mysql_max_life", "1h")
	v.SetDefault("session.backend", StorageMemory)
	v.SetDefault("session.duration", "168h")
	v.SetDefault("session.redis_url", "")
	v.SetDefault("session.sweep_interval", "10m")
	v.SetDefault("auth.password_cost", 10)
	v.SetDefault("developer.username", "developer")
	v.SetDefault("developer.password", "developer")
	v.SetDefault("developer.gold", 1_000_000)
	v.SetDefault("lobby.stale_after", "30m")
	v.SetDefault("lobby.persist_sweep", true)
	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 10)
}

// Load reads configuration. path may be empty, in which case only defaults,
// .env and the environment are used.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at wiring time
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageMemory, StorageRedis, StorageSQLite:
	case StorageMySQL:
		if c.Storage.MySQLDSN == "" {
			return errors.New("storage.mysql_dsn is required for mysql storage")
		}
	default:
		return fmt.Errorf("unknown storage.type %q", c.Storage.Type)
	}

	switch c.Session.Backend {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("unknown session.backend %q", c.Session.Backend)
	}

	if c.Session.Duration <= 0 {
		return errors.New("session.duration must be positive")
	}
	if c.Lobby.StaleAfter <= 0 {
		return errors.New("lobby.stale_after must be positive")
	}
	if c.Auth.PasswordCost < bcrypt.MinCost || c.Auth.PasswordCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Developer.Username == "" || c.Developer.Password == "" {
		return errors.New("developer.username and developer.password are required")
	}
	return nil
}

// SessionRedisURL is the Redis URL for sessions, falling back to storage.redis_url
func (c *Config) SessionRedisURL() string {
	if c.Session.RedisURL != "" {
		return c.Session.RedisURL
	}
	return c.Storage.RedisURL
}

// NewLogger builds the process logger described by the log section
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Log.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
