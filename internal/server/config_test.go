package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pebbles/internal/randutil"
)

func TestLoadServerConfigMissingFile(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), cfg)
	assert.Equal(t, "localhost:8080", cfg.GetServerAddress())
	assert.Equal(t, 5*time.Minute, cfg.GetIdleTimeout())
}

func TestLoadServerConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pebbles-server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  address      = "0.0.0.0"
  port         = 9090
  idle_timeout = 30
  seed         = 42
}
`), 0o644))

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddress())
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.GetIdleTimeout())
	require.NotNil(t, cfg.Server.Seed)
	assert.Equal(t, int64(42), *cfg.Server.Seed)
}

func TestServerConfigSeed(t *testing.T) {
	t.Run("unset uses crypto entropy", func(t *testing.T) {
		cfg := DefaultServerConfig()
		assert.Nil(t, cfg.Server.Seed)
		assert.Len(t, cfg.Options(), 1)
	})

	t.Run("zero is a real seed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pebbles-server.hcl")
		require.NoError(t, os.WriteFile(path, []byte("server {\n  seed = 0\n}\n"), 0o644))

		cfg, err := LoadServerConfig(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.Server.Seed)
		assert.Equal(t, int64(0), *cfg.Server.Seed)

		s := NewServer("", testLogger(), cfg.Options()...)
		want := randutil.Seeded(0)
		got := s.newSource()
		for range 8 {
			assert.Equal(t, want.NextU32(), got.NextU32())
		}
	})
}

func TestLoadServerConfigInvalidHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`server { port = `), 0o644))

	_, err := LoadServerConfig(path)
	assert.Error(t, err)
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ServerConfig)
	}{
		{"port too low", func(c *ServerConfig) { c.Server.Port = 0 }},
		{"port too high", func(c *ServerConfig) { c.Server.Port = 70000 }},
		{"negative idle timeout", func(c *ServerConfig) { c.Server.IdleTimeout = -1 }},
		{"unknown log level", func(c *ServerConfig) { c.Server.LogLevel = "loud" }},
	}

	require.NoError(t, DefaultServerConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
