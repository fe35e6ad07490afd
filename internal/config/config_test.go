package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := Load("")
	s.Require().NoError(err)

	s.Equal(8080, cfg.Server.Port)
	s.Equal(StorageMemory, cfg.Storage.Type)
	s.Equal(StorageMemory, cfg.Session.Backend)
	s.Equal(7*24*time.Hour, cfg.Session.Duration)
	s.Equal(30*time.Minute, cfg.Lobby.StaleAfter)
	s.True(cfg.Lobby.PersistSweep)
	s.Equal("developer", cfg.Developer.Username)
	s.Equal(int64(1_000_000), cfg.Developer.Gold)
	s.Equal(time.Hour, cfg.Storage.MySQLMaxLife)
}

func (s *ConfigSuite) TestEnvironmentOverrides() {
	s.T().Setenv("WARFRONT_SERVER_PORT", "9090")
	s.T().Setenv("WARFRONT_STORAGE_TYPE", "sqlite")
	s.T().Setenv("WARFRONT_SESSION_DURATION", "48h")
	s.T().Setenv("WARFRONT_LOBBY_PERSIST_SWEEP", "false")

	cfg, err := Load("")
	s.Require().NoError(err)

	s.Equal(9090, cfg.Server.Port)
	s.Equal(StorageSQLite, cfg.Storage.Type)
	s.Equal(48*time.Hour, cfg.Session.Duration)
	s.False(cfg.Lobby.PersistSweep)
}

func (s *ConfigSuite) TestYAMLFile() {
	path := filepath.Join(s.T().TempDir(), "warfront.yaml")
	yaml := `
server:
  port: 7000
storage:
  type: redis
  redis_url: redis://cache:6379
developer:
  username: admin
  password: s3cret
  gold: 42
`
	s.Require().NoError(os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal(7000, cfg.Server.Port)
	s.Equal(StorageRedis, cfg.Storage.Type)
	s.Equal("redis://cache:6379", cfg.SessionRedisURL())
	s.Equal("admin", cfg.Developer.Username)
	s.Equal(int64(42), cfg.Developer.Gold)
}

func (s *ConfigSuite) TestEnvBeatsFile() {
	path := filepath.Join(s.T().TempDir(), "warfront.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("server:\n  port: 7000\n"), 0o600))
	s.T().Setenv("WARFRONT_SERVER_PORT", "7100")

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal(7100, cfg.Server.Port)
}

func (s *ConfigSuite) TestValidation() {
	s.T().Setenv("WARFRONT_STORAGE_TYPE", "postgres")
	_, err := Load("")
	s.Error(err)

	s.T().Setenv("WARFRONT_STORAGE_TYPE", "mysql")
	_, err = Load("")
	s.ErrorContains(err, "mysql_dsn")
}

func (s *ConfigSuite) TestPasswordCostRange() {
	s.T().Setenv("WARFRONT_AUTH_PASSWORD_COST", "32")
	_, err := Load("")
	s.ErrorContains(err, "auth.password_cost")

	s.T().Setenv("WARFRONT_AUTH_PASSWORD_COST", "3")
	_, err = Load("")
	s.ErrorContains(err, "auth.password_cost")

	s.T().Setenv("WARFRONT_AUTH_PASSWORD_COST", "4")
	cfg, err := Load("")
	s.Require().NoError(err)
	s.Equal(4, cfg.Auth.PasswordCost)
}

func (s *ConfigSuite) TestMissingFile() {
	_, err := Load(filepath.Join(s.T().TempDir(), "missing.yaml"))
	s.Error(err)
}
