package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" WARN "))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewLogger_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelInfo, "json")
	defer slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	logger.Info("merchant settings saved", slog.String("merchant_account", "CoffeeShopPOS"), slog.String("api_key", "AQEyhmfxK4"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "CoffeeShopPOS", entry["merchant_account"])
	assert.Equal(t, "[redacted]", entry["api_key"])
	assert.NotContains(t, buf.String(), "AQEyhmfxK4")
}

func TestNewLogger_TextFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelWarn, "TEXT")
	defer slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	logger.Info("devices discovered")
	assert.Empty(t, buf.String())

	logger.Warn("device discovery failed", slog.String("setup_token", "tok"))
	assert.Contains(t, buf.String(), "setup_token=[redacted]")
}

func TestInstrumentsFallbacks(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("test"))
	assert.NotNil(t, instruments.Meter("test"))
}
