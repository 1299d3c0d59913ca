package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the base interface for order domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderPlaced is raised once an order and its items are committed.
type OrderPlaced struct {
	BaseEvent
	OrderID       int64
	RegisterID    string
	TotalAmount   decimal.Decimal
	Currency      string
	PaymentMethod string
	TransactionID string
	ItemCount     int32
}

// EventName returns the event type identifier.
func (e OrderPlaced) EventName() string {
	return "orders.order.placed"
}

// NewOrderPlaced derives the event from a persisted order.
func NewOrderPlaced(order *Order) OrderPlaced {
	return OrderPlaced{
		BaseEvent:     BaseEvent{Timestamp: order.CreatedAt},
		OrderID:       order.ID,
		RegisterID:    order.RegisterID,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		PaymentMethod: order.PaymentMethod,
		TransactionID: order.TransactionID,
		ItemCount:     order.ItemCount(),
	}
}
