package amqp

import (
	"fmt"
	"log/slog"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connect dials the broker, opens a channel and declares the durable topic exchange events go to.
func Connect(url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, nil, fmt.Errorf("amqp url is empty")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return conn, ch, nil
}

// ConnectOrFallback returns a nil channel when url is blank or the broker is unreachable.
// Orders are still recorded in that case; only their events are not published.
func ConnectOrFallback(url, exchange string, logger *slog.Logger) (*amqp.Channel, func()) {
	if strings.TrimSpace(url) == "" {
		if logger != nil {
			logger.Warn("AMQP_URL not set, order events will not be published")
		}
		return nil, func() {}
	}
	conn, ch, err := Connect(url, exchange)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to rabbitmq, order events will not be published", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("rabbitmq connection established", slog.String("exchange", exchange))
	}
	return ch, func() {
		_ = ch.Close()
		_ = conn.Close()
	}
}
