package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName      = errors.New("menu item name must not be empty")
	ErrInvalidPrice   = errors.New("menu item price must not be negative")
	ErrInvalidVATRate = errors.New("vat rate must be between 0 and 100")
	ErrInvalidStock   = errors.New("stock quantity must not be negative")
)

var maxVATRate = decimal.NewFromInt(100)

// MenuItem is a sellable product shown on the register menu.
type MenuItem struct {
	ID              int64
	Name            string
	Description     string
	Price           decimal.Decimal
	VATRate         decimal.Decimal
	QuantityInStock int32
	// ImagePath is empty when the item has no picture.
	ImagePath string
	// OrderIndex is assigned by the repository on insert and only changes through reordering.
	OrderIndex int64
}

// NewMenuItem validates and constructs a MenuItem. ID and OrderIndex are left for the repository.
func NewMenuItem(name, description string, price, vatRate decimal.Decimal, stock int32, imagePath string) (*MenuItem, error) {
	item := &MenuItem{
		Name:            strings.TrimSpace(name),
		Description:     strings.TrimSpace(description),
		Price:           price,
		VATRate:         vatRate,
		QuantityInStock: stock,
		ImagePath:       strings.TrimSpace(imagePath),
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate enforces invariants on the item.
func (m *MenuItem) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if m.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if m.VATRate.IsNegative() || m.VATRate.GreaterThan(maxVATRate) {
		return ErrInvalidVATRate
	}
	if m.QuantityInStock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// HasImage reports whether an image reference is set.
func (m *MenuItem) HasImage() bool {
	return m.ImagePath != ""
}

// Clone returns a detached copy.
func (m *MenuItem) Clone() *MenuItem {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}
