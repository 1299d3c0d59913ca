package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts backed by PostgreSQL.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&menuItemRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&preferenceRecord{},
	)
}

// Menu schema mirrors the menu Postgres adapter.
type menuItemRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	Name            string          `gorm:"column:name;not null"`
	Description     string          `gorm:"column:description"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	VATRate         decimal.Decimal `gorm:"column:vat_rate;type:numeric(5,2);not null"`
	QuantityInStock int32           `gorm:"column:quantity_in_stock"`
	ImagePath       *string         `gorm:"column:image_path"`
	OrderIndex      int64           `gorm:"column:order_index;index"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (menuItemRecord) TableName() string { return "menu_items" }

// Order schema mirrors the orders Postgres adapter. Items cascade with their order.
type orderRecord struct {
	ID            int64             `gorm:"primaryKey;column:id"`
	RegisterID    string            `gorm:"column:register_id;index"`
	TotalAmount   decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Currency      string            `gorm:"column:currency;size:3;not null"`
	PaymentMethod string            `gorm:"column:payment_method;not null"`
	TransactionID string            `gorm:"column:transaction_id;not null;uniqueIndex"`
	CreatedAt     time.Time         `gorm:"column:created_at;index"`
	Items         []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	OrderID         int64           `gorm:"column:order_id;not null;index"`
	MenuItemID      int64           `gorm:"column:menu_item_id;not null"`
	Name            string          `gorm:"column:name;not null"`
	Quantity        int32           `gorm:"column:quantity;not null"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric(12,2);not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Preference schema mirrors the settings key-value store.
type preferenceRecord struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (preferenceRecord) TableName() string { return "preferences" }
