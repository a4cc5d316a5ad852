package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolateHome(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, filepath.Join(home, ".config", "calculator", "history.db"), cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "go-chi-calculator", cfg.Telemetry.ServiceName)
}

func TestLoadFromFile(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(t.TempDir(), "calc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: 127.0.0.1:9090
  shutdown_timeout: 12s
  session_ttl: 0s
database:
  path: ~/data/calc.db
logging:
  level: debug
  format: console
telemetry:
  enabled: true
  service_name: calc-test
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 12*time.Second, cfg.Server.ShutdownTimeout)
	assert.Zero(t, cfg.Server.SessionTTL)
	assert.Equal(t, filepath.Join(home, "data", "calc.db"), cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "calc-test", cfg.Telemetry.ServiceName)
}

func TestLoadFindsConfigInHome(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".config", "calculator")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("logging:\n  level: warn\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "calc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: :7000\n"), 0o600))

	t.Setenv("CALC_SERVER_ADDR", ":7001")
	t.Setenv("CALC_SERVER_SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CALC_DATABASE_PATH", "$HOME/env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7001", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), "env.db"), cfg.Database.Path)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolateHome(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	isolateHome(t)
	t.Setenv("CALC_SERVER_SHUTDOWN_TIMEOUT", "0s")

	_, err := Load("")
	assert.ErrorContains(t, err, "shutdown_timeout")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server:    ServerConfig{Addr: ":8080", ShutdownTimeout: time.Second},
		Database:  DatabaseConfig{Path: "history.db"},
		Telemetry: TelemetryConfig{ServiceName: "calc"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"negative timeout", func(c *Config) { c.Server.ShutdownTimeout = -time.Second }},
		{"negative session ttl", func(c *Config) { c.Server.SessionTTL = -time.Minute }},
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"telemetry without service name", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.ServiceName = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := isolateHome(t)
	t.Setenv("CALC_TEST_DIR", "/srv/calc")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "a", "b.db"), ExpandPath("~/a/b.db"))
	assert.Equal(t, "/srv/calc/history.db", ExpandPath("$CALC_TEST_DIR/history.db"))
	assert.Equal(t, "relative.db", ExpandPath("relative.db"))
}
