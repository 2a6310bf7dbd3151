package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer("")
	require.NoError(t, err)

	assert.Equal(t, ":6321", cfg.Listen)
	assert.Equal(t, 2, cfg.MaxPeers)
	assert.Equal(t, 30*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "checkerterm", cfg.SSH.ClientBinary)
	assert.Empty(t, cfg.SSH.Address)
}

func TestLoadServerEnv(t *testing.T) {
	t.Setenv("CHECKERS_LISTEN", "127.0.0.1:7000")
	t.Setenv("CHECKERS_IDLE_TIMEOUT", "1m")
	t.Setenv("CHECKERS_SSH_LISTEN", ":2222")

	cfg, err := LoadServer("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Listen)
	assert.Equal(t, time.Minute, cfg.IdleTimeout)
	assert.Equal(t, ":2222", cfg.SSH.Address)
}

func TestLoadServerRejectsSinglePeer(t *testing.T) {
	t.Setenv("CHECKERS_MAX_PEERS", "1")

	_, err := LoadServer("")
	assert.Error(t, err)
}

func TestLoadClientFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yml")
	data := []byte("server: relay.example:6321\nname: alice\nhost: true\nkeep-alive: 3s\nlog:\n  level: debug\n  file: /tmp/alice.log\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := LoadClient(path)
	require.NoError(t, err)
	assert.Equal(t, "relay.example:6321", cfg.Server)
	assert.Equal(t, "alice", cfg.Name)
	assert.True(t, cfg.Host)
	assert.Equal(t, 3*time.Second, cfg.KeepAlive)
	assert.Equal(t, 25, cfg.DialAttempts)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/alice.log", cfg.Log.File)
}

func TestLoadClientDefaults(t *testing.T) {
	cfg, err := LoadClient("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:6321", cfg.Server)
	assert.False(t, cfg.Host)
	assert.NotEmpty(t, cfg.Name)
	assert.NotEmpty(t, cfg.Log.File)
	assert.Equal(t, 7*time.Second, cfg.KeepAlive)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadClient(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
