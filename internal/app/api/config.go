package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	terminalclient "github.com/Apurer/go-gin-pos-server/internal/clients/http/terminal"
	ordersamqp "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/messaging/amqp"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	RedisAddr         string
	AMQPURL           string
	AMQPExchange      string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	SaleID            string
	SoftPOSBaseURL    string
	DeviceAPIBaseURL  string
	TerminalTimeout   time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		AMQPURL:           strings.TrimSpace(os.Getenv("AMQP_URL")),
		AMQPExchange:      envDefault("AMQP_EXCHANGE", ordersamqp.DefaultExchange),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SaleID:            envDefault("SALE_ID", "POS-1"),
		SoftPOSBaseURL:    envDefault("TERMINAL_SOFTPOS_URL", terminalclient.DefaultSoftPOSBaseURL),
		DeviceAPIBaseURL:  envDefault("TERMINAL_DEVICE_API_URL", terminalclient.DefaultDeviceAPIBaseURL),
		TerminalTimeout:   terminalclient.DefaultTimeout,
	}
	if raw := strings.TrimSpace(os.Getenv("TERMINAL_TIMEOUT_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("TERMINAL_TIMEOUT_SECONDS must be a positive integer")
		}
		cfg.TerminalTimeout = time.Duration(seconds) * time.Second
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	return cfg, nil
}

// PaymentTimeout bounds one device payment end to end, leaving headroom over the terminal call.
func (c Config) PaymentTimeout() time.Duration {
	return c.TerminalTimeout + 10*time.Second
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
