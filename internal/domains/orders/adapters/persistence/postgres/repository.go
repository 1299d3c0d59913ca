package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
)

const uniqueViolation = "23505"

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their items in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID            int64             `gorm:"primaryKey;column:id"`
	RegisterID    string            `gorm:"column:register_id"`
	TotalAmount   decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Currency      string            `gorm:"column:currency;size:3;not null"`
	PaymentMethod string            `gorm:"column:payment_method;not null"`
	TransactionID string            `gorm:"column:transaction_id;not null;uniqueIndex"`
	CreatedAt     time.Time         `gorm:"column:created_at"`
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

// Create writes the order header and every item in one transaction. Any failure rolls back both.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	items := record.Items
	record.Items = nil
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&record).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = record.ID
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ports.ErrDuplicateTransaction
		}
		return nil, err
	}
	record.Items = items
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Order, error) {
	return r.first(ctx, "transaction_id = ?", transactionID)
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at DESC").Order("id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&record, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:            order.ID,
		RegisterID:    order.RegisterID,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		PaymentMethod: order.PaymentMethod,
		TransactionID: order.TransactionID,
		CreatedAt:     order.CreatedAt,
		Items:         make([]orderItemRecord, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		rec.Items = append(rec.Items, orderItemRecord{
			OrderID:         order.ID,
			MenuItemID:      item.MenuItemID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:            r.ID,
		RegisterID:    r.RegisterID,
		TotalAmount:   r.TotalAmount,
		Currency:      r.Currency,
		PaymentMethod: r.PaymentMethod,
		TransactionID: r.TransactionID,
		CreatedAt:     r.CreatedAt.UTC(),
		Items:         make([]domain.OrderItem, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:              item.ID,
			OrderID:         item.OrderID,
			MenuItemID:      item.MenuItemID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return order
}
