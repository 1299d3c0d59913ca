package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(ctx, exchange, key, mandatory, immediate, msg).Error(0)
}

func placedEvent() domain.OrderPlaced {
	return domain.OrderPlaced{
		BaseEvent:     domain.BaseEvent{Timestamp: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)},
		OrderID:       7,
		RegisterID:    "reg-1",
		TotalAmount:   decimal.RequireFromString("35"),
		Currency:      "SEK",
		PaymentMethod: domain.PaymentMethodTerminal,
		TransactionID: "T1",
		ItemCount:     5,
	}
}

func TestPublish_SendsPersistentJSON(t *testing.T) {
	ch := &MockChannel{}
	var published amqp.Publishing
	ch.On("PublishWithContext", mock.Anything, DefaultExchange, "orders.order.placed", false, false, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(5).(amqp.Publishing) }).
		Return(nil)

	err := NewPublisher(ch, "").Publish(context.Background(), placedEvent())
	require.NoError(t, err)
	ch.AssertExpectations(t)

	assert.Equal(t, "application/json", published.ContentType)
	assert.Equal(t, amqp.Persistent, published.DeliveryMode)
	assert.Equal(t, "orders.order.placed", published.Type)
	assert.NotEmpty(t, published.MessageId)

	var body map[string]any
	require.NoError(t, json.Unmarshal(published.Body, &body))
	assert.Equal(t, "35.00", body["totalAmount"])
	assert.Equal(t, "T1", body["transactionId"])
	assert.Equal(t, float64(7), body["orderId"])
}

func TestPublish_PropagatesChannelError(t *testing.T) {
	ch := &MockChannel{}
	ch.On("PublishWithContext", mock.Anything, "custom", mock.Anything, false, false, mock.Anything).
		Return(errors.New("channel closed"))

	err := NewPublisher(ch, "custom").Publish(context.Background(), placedEvent())
	require.EqualError(t, err, "channel closed")
}

func TestPublish_Unconfigured(t *testing.T) {
	var p *Publisher
	require.Error(t, p.Publish(context.Background(), placedEvent()))
}
