package domain

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyRegisterID = errors.New("register id must not be empty")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrInvalidItem     = errors.New("cart line must reference a menu item")
	ErrItemNotInCart   = errors.New("item is not in the cart")
	ErrCartLocked      = errors.New("cart is locked while a payment is in progress")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrQuantityLimit   = errors.New("cart quantity exceeds the supported maximum")
)

// Line is a menu item snapshot plus quantity. Quantity is always at least one.
type Line struct {
	MenuItemID int64
	Name       string
	UnitPrice  decimal.Decimal
	VATRate    decimal.Decimal
	Quantity   int32
}

// Subtotal returns unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// Cart is the per-register basket. Lines keep insertion order.
type Cart struct {
	RegisterID        string
	Lines             []Line
	PaymentInProgress bool
}

func NewCart(registerID string) (*Cart, error) {
	registerID = strings.TrimSpace(registerID)
	if registerID == "" {
		return nil, ErrEmptyRegisterID
	}
	return &Cart{RegisterID: registerID, Lines: []Line{}}, nil
}

// Add puts quantity units of the item in the cart, incrementing an existing line.
func (c *Cart) Add(line Line) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if line.MenuItemID <= 0 {
		return ErrInvalidItem
	}
	if line.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if c.units()+int64(line.Quantity) > math.MaxInt32 {
		return ErrQuantityLimit
	}
	if i := c.indexOf(line.MenuItemID); i >= 0 {
		c.Lines[i].Quantity += line.Quantity
		return nil
	}
	c.Lines = append(c.Lines, line)
	return nil
}

// SetQuantity adjusts a line; a quantity of zero or less removes it.
func (c *Cart) SetQuantity(menuItemID int64, quantity int32) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	i := c.indexOf(menuItemID)
	if i < 0 {
		return ErrItemNotInCart
	}
	if quantity <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return nil
	}
	if c.units()-int64(c.Lines[i].Quantity)+int64(quantity) > math.MaxInt32 {
		return ErrQuantityLimit
	}
	c.Lines[i].Quantity = quantity
	return nil
}

// Remove drops a line entirely.
func (c *Cart) Remove(menuItemID int64) error {
	return c.SetQuantity(menuItemID, 0)
}

// Empty removes all lines. It fails while a payment is in progress.
func (c *Cart) Empty() error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	c.Lines = []Line{}
	return nil
}

// Reset clears lines and the payment lock. Used once an order has been persisted.
func (c *Cart) Reset() {
	c.Lines = []Line{}
	c.PaymentInProgress = false
}

// Lock marks the cart as being paid for.
func (c *Cart) Lock() error {
	if c.IsEmpty() {
		return ErrEmptyCart
	}
	c.PaymentInProgress = true
	return nil
}

func (c *Cart) Unlock() {
	c.PaymentInProgress = false
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount sums line quantities. Add and SetQuantity keep it within int32.
func (c *Cart) ItemCount() int32 {
	var count int32
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) units() int64 {
	var n int64
	for _, line := range c.Lines {
		n += int64(line.Quantity)
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Lines = append([]Line{}, c.Lines...)
	return &clone
}

func (c *Cart) ensureMutable() error {
	if c.PaymentInProgress {
		return ErrCartLocked
	}
	return nil
}

func (c *Cart) indexOf(menuItemID int64) int {
	for i, line := range c.Lines {
		if line.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}
