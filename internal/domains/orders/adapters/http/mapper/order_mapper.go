package mapper

import (
	"time"

	ordersdomain "github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
)

type OrderItem struct {
	ID              int64  `json:"id"`
	MenuItemID      int64  `json:"menuItemId"`
	Name            string `json:"name"`
	Quantity        int32  `json:"quantity"`
	PriceAtPurchase string `json:"priceAtPurchase"`
}

// Order is the transport shape of a completed sale.
type Order struct {
	ID            int64       `json:"id"`
	RegisterID    string      `json:"registerId,omitempty"`
	TotalAmount   string      `json:"totalAmount"`
	Currency      string      `json:"currency"`
	PaymentMethod string      `json:"paymentMethod"`
	TransactionID string      `json:"transactionId"`
	CreatedAt     time.Time   `json:"createdAt"`
	Items         []OrderItem `json:"items"`
}

func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	out := Order{
		ID:            order.ID,
		RegisterID:    order.RegisterID,
		TotalAmount:   order.TotalAmount.StringFixed(2),
		Currency:      order.Currency,
		PaymentMethod: order.PaymentMethod,
		TransactionID: order.TransactionID,
		CreatedAt:     order.CreatedAt,
		Items:         make([]OrderItem, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, OrderItem{
			ID:              item.ID,
			MenuItemID:      item.MenuItemID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase.StringFixed(2),
		})
	}
	return out
}

func FromDomainOrders(orders []*ordersdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}
