package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	menudomain "github.com/Apurer/go-gin-pos-server/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-pos-server/internal/shared/projection"
)

// MenuItemPayload is the request body for creating or replacing a menu item.
// Prices accept either JSON numbers or decimal strings.
type MenuItemPayload struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	VATRate         decimal.Decimal `json:"vatRate"`
	QuantityInStock int32           `json:"quantityInStock"`
	ImagePath       string          `json:"imagePath"`
}

// MenuItem is the transport shape returned by the menu endpoints.
type MenuItem struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Price           string    `json:"price"`
	VATRate         string    `json:"vatRate"`
	QuantityInStock int32     `json:"quantityInStock"`
	ImagePath       string    `json:"imagePath,omitempty"`
	OrderIndex      int64     `json:"orderIndex"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ToDomainMenuItem validates the payload into a domain item carrying the given id.
func ToDomainMenuItem(id int64, payload MenuItemPayload) (*menudomain.MenuItem, error) {
	item, err := menudomain.NewMenuItem(payload.Name, payload.Description, payload.Price, payload.VATRate, payload.QuantityInStock, payload.ImagePath)
	if err != nil {
		return nil, err
	}
	item.ID = id
	return item, nil
}

func FromProjection(p *projection.Projection[*menudomain.MenuItem]) MenuItem {
	if p == nil || p.Entity == nil {
		return MenuItem{}
	}
	item := p.Entity
	return MenuItem{
		ID:              item.ID,
		Name:            item.Name,
		Description:     item.Description,
		Price:           item.Price.StringFixed(2),
		VATRate:         item.VATRate.StringFixed(2),
		QuantityInStock: item.QuantityInStock,
		ImagePath:       item.ImagePath,
		OrderIndex:      item.OrderIndex,
		CreatedAt:       p.Metadata.CreatedAt,
		UpdatedAt:       p.Metadata.UpdatedAt,
	}
}

func FromProjectionList(items []*projection.Projection[*menudomain.MenuItem]) []MenuItem {
	return projection.Map(items, FromProjection)
}
