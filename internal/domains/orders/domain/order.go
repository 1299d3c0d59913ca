package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Payment method labels recorded on orders.
const (
	PaymentMethodTapToPay   = "Tap to Pay"
	PaymentMethodCardReader = "NYC1"
	PaymentMethodTerminal   = "Terminal"
)

var (
	ErrMissingTransactionID = errors.New("order transaction id must not be empty")
	ErrMissingPaymentMethod = errors.New("order payment method must not be empty")
	ErrNoItems              = errors.New("order must contain at least one item")
	ErrInvalidItemQuantity  = errors.New("order item quantity must be greater than zero")
	ErrNegativeAmount       = errors.New("order amounts must not be negative")
)

// Order is an immutable record of a completed sale.
type Order struct {
	ID            int64
	RegisterID    string
	TotalAmount   decimal.Decimal
	Currency      string
	PaymentMethod string
	TransactionID string
	CreatedAt     time.Time
	Items         []OrderItem
}

// OrderItem snapshots the unit price at purchase time.
type OrderItem struct {
	ID              int64
	OrderID         int64
	MenuItemID      int64
	Name            string
	Quantity        int32
	PriceAtPurchase decimal.Decimal
}

// Subtotal returns the line amount.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt32(i.Quantity))
}

// NewOrder builds an order whose total is the sum of its item subtotals.
func NewOrder(registerID, currency, paymentMethod, transactionID string, items []OrderItem, createdAt time.Time) (*Order, error) {
	order := &Order{
		RegisterID:    strings.TrimSpace(registerID),
		Currency:      strings.ToUpper(strings.TrimSpace(currency)),
		PaymentMethod: strings.TrimSpace(paymentMethod),
		TransactionID: strings.TrimSpace(transactionID),
		CreatedAt:     createdAt.UTC(),
		Items:         append([]OrderItem{}, items...),
	}
	order.TotalAmount = order.itemsTotal()
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.TransactionID == "" {
		return ErrMissingTransactionID
	}
	if o.PaymentMethod == "" {
		return ErrMissingPaymentMethod
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return ErrInvalidItemQuantity
		}
		if item.PriceAtPurchase.IsNegative() {
			return ErrNegativeAmount
		}
	}
	if o.TotalAmount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// ItemCount sums item quantities.
func (o *Order) ItemCount() int32 {
	var count int32
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

func (o *Order) itemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]OrderItem{}, o.Items...)
	return &clone
}
