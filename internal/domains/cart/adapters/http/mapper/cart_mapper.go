package mapper

import (
	cartdomain "github.com/Apurer/go-gin-pos-server/internal/domains/cart/domain"
)

// AddItemPayload adds quantity units of a menu item; quantity defaults to one.
type AddItemPayload struct {
	MenuItemID int64 `json:"menuItemId" binding:"required"`
	Quantity   int32 `json:"quantity"`
}

type SetQuantityPayload struct {
	Quantity int32 `json:"quantity"`
}

type CartLine struct {
	MenuItemID int64  `json:"menuItemId"`
	Name       string `json:"name"`
	UnitPrice  string `json:"unitPrice"`
	VATRate    string `json:"vatRate"`
	Quantity   int32  `json:"quantity"`
	Subtotal   string `json:"subtotal"`
}

// Cart is the transport shape of a register's basket.
type Cart struct {
	RegisterID        string     `json:"registerId"`
	Lines             []CartLine `json:"lines"`
	ItemCount         int32      `json:"itemCount"`
	Total             string     `json:"total"`
	PaymentInProgress bool       `json:"paymentInProgress"`
}

func (p AddItemPayload) EffectiveQuantity() int32 {
	if p.Quantity == 0 {
		return 1
	}
	return p.Quantity
}

func FromDomainCart(cart *cartdomain.Cart) Cart {
	if cart == nil {
		return Cart{Lines: []CartLine{}, Total: "0.00"}
	}
	out := Cart{
		RegisterID:        cart.RegisterID,
		Lines:             make([]CartLine, 0, len(cart.Lines)),
		ItemCount:         cart.ItemCount(),
		Total:             cart.Total().StringFixed(2),
		PaymentInProgress: cart.PaymentInProgress,
	}
	for _, line := range cart.Lines {
		out.Lines = append(out.Lines, CartLine{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			UnitPrice:  line.UnitPrice.StringFixed(2),
			VATRate:    line.VATRate.String(),
			Quantity:   line.Quantity,
			Subtotal:   line.Subtotal().StringFixed(2),
		})
	}
	return out
}
