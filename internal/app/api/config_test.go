package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"

	terminalclient "github.com/Apurer/go-gin-pos-server/internal/clients/http/terminal"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "POSTGRES_DSN", "REDIS_ADDR", "AMQP_URL", "TEMPORAL_ADDRESS", "TEMPORAL_DISABLED", "SALE_ID", "TERMINAL_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	assert.False(t, cfg.TemporalDisabled)
	assert.Equal(t, "POS-1", cfg.SaleID)
	assert.Equal(t, terminalclient.DefaultTimeout, cfg.TerminalTimeout)
	assert.Equal(t, terminalclient.DefaultTimeout+10*time.Second, cfg.PaymentTimeout())
	assert.Equal(t, "pos.events", cfg.AMQPExchange)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TEMPORAL_DISABLED", "Yes")
	t.Setenv("TERMINAL_TIMEOUT_SECONDS", "45")
	t.Setenv("REDIS_ADDR", " localhost:6379 ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, 45*time.Second, cfg.TerminalTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	t.Setenv("TERMINAL_TIMEOUT_SECONDS", "-3")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("TERMINAL_TIMEOUT_SECONDS", "")
	t.Setenv("PORT", "http")
	_, err = LoadConfig()
	require.Error(t, err)
}
