package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
)

// DefaultExchange receives every order event, routed by event name.
const DefaultExchange = "pos.events"

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends order events to RabbitMQ as persistent JSON messages.
type Publisher struct {
	channel  Channel
	exchange string
}

var _ ports.EventPublisher = (*Publisher)(nil)

func NewPublisher(channel Channel, exchange string) *Publisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Publisher{channel: channel, exchange: exchange}
}

type orderPlacedMessage struct {
	OrderID       int64     `json:"orderId"`
	RegisterID    string    `json:"registerId"`
	TotalAmount   string    `json:"totalAmount"`
	Currency      string    `json:"currency"`
	PaymentMethod string    `json:"paymentMethod"`
	TransactionID string    `json:"transactionId"`
	ItemCount     int32     `json:"itemCount"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	if p == nil || p.channel == nil {
		return errors.New("amqp publisher not configured")
	}
	body, err := encode(event)
	if err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx, p.exchange, event.EventName(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    event.OccurredAt(),
		Type:         event.EventName(),
		Body:         body,
	})
}

func encode(event domain.Event) ([]byte, error) {
	switch e := event.(type) {
	case domain.OrderPlaced:
		return json.Marshal(orderPlacedMessage{
			OrderID:       e.OrderID,
			RegisterID:    e.RegisterID,
			TotalAmount:   e.TotalAmount.StringFixed(2),
			Currency:      e.Currency,
			PaymentMethod: e.PaymentMethod,
			TransactionID: e.TransactionID,
			ItemCount:     e.ItemCount,
			OccurredAt:    e.OccurredAt().UTC(),
		})
	default:
		return nil, fmt.Errorf("unsupported order event %q", event.EventName())
	}
}
