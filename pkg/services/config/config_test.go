package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.DB)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Provider.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STOCKREPORTS_DB", "test.db")
	t.Setenv("STOCKREPORTS_DEBUG", "true")
	t.Setenv("STOCKREPORTS_PROVIDER_TIMEOUT", "5s")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test.db", cfg.DB)
	assert.True(t, cfg.Debug)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_PrefixedServerEnvWins(t *testing.T) {
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("STOCKREPORTS_SERVER_HOST", "10.0.0.1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", cfg.Server.Host)
}

func TestLoad_ValidYAML_PopulatesAllFields(t *testing.T) {
	// Given
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `db: "reports.db"
debug: true
server:
  host: "0.0.0.0"
  port: 8000
  shutdown_timeout: "3s"
provider:
  base_url: "http://localhost:9999"
  timeout: "2s"
  user_agent: "stock-reports-test"`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// When
	cfg, err := Load(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "reports.db", cfg.DB)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "http://localhost:9999", cfg.Provider.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "stock-reports-test", cfg.Provider.UserAgent)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`db: "file.db"`), 0o644))
	t.Setenv("STOCKREPORTS_DB", "env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.DB)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("db: a: b: c"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty db", mutate: func(c *Config) { c.DB = "" }},
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "huge port", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "no shutdown timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = 0 }},
		{name: "no provider url", mutate: func(c *Config) { c.Provider.BaseURL = "" }},
		{name: "no provider timeout", mutate: func(c *Config) { c.Provider.Timeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
