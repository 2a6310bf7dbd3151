package obslog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" warning "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("bogus"))
}

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("relay listening", zap.String("addr", ":6321"))
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "relay listening", entry["msg"])
	assert.Equal(t, ":6321", entry["addr"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "client.log")

	logger, err := New(Options{Level: "debug", File: path, Name: "client"})
	require.NoError(t, err)
	logger.Debug("connected")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "connected")
	assert.Contains(t, string(data), "client")
	assert.Contains(t, string(data), "DEBUG")
}
