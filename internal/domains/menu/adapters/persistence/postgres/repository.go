package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-pos-server/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/menu/ports"
	"github.com/Apurer/go-gin-pos-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists menu items in PostgreSQL using GORM. Schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

// Insert appends the item after the current highest order index inside one transaction.
func (r *Repository) Insert(ctx context.Context, item *domain.MenuItem) (*projection.Projection[*domain.MenuItem], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("menu item is nil")
	}
	record := toRecord(item)
	record.ID = 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialises concurrent inserts so two items never receive the same index.
		if err := tx.Exec("LOCK TABLE menu_items IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
			return err
		}
		var maxIndex int64
		if err := tx.Model(&menuItemRecord{}).
			Select("COALESCE(MAX(order_index), 0)").
			Scan(&maxIndex).Error; err != nil {
			return err
		}
		record.OrderIndex = maxIndex + 1
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toProjection(), nil
}

// Update rewrites mutable columns; order_index is not touched.
func (r *Repository) Update(ctx context.Context, item *domain.MenuItem) (*projection.Projection[*domain.MenuItem], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("menu item is nil")
	}
	record := toRecord(item)
	result := r.db.WithContext(ctx).Model(&menuItemRecord{}).Where("id = ?", item.ID).Updates(map[string]any{
		"name":              record.Name,
		"description":       record.Description,
		"price":             record.Price,
		"vat_rate":          record.VATRate,
		"quantity_in_stock": record.QuantityInStock,
		"image_path":        record.ImagePath,
		"updated_at":        gorm.Expr("NOW()"),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, item.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.MenuItem], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record menuItemRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// Delete removes the item and closes the gap it leaves in order_index.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var deleted menuItemRecord
		result := tx.Clauses(clause.Returning{Columns: []clause.Column{{Name: "order_index"}}}).
			Where("id = ?", id).Delete(&deleted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return tx.Model(&menuItemRecord{}).Where("order_index > ?", deleted.OrderIndex).
			Updates(map[string]any{"order_index": gorm.Expr("order_index - 1"), "updated_at": gorm.Expr("NOW()")}).Error
	})
}

func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.MenuItem], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []menuItemRecord
	if err := r.db.WithContext(ctx).Order("order_index ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*projection.Projection[*domain.MenuItem], 0, len(records))
	for i := range records {
		items = append(items, records[i].toProjection())
	}
	return items, nil
}

// SwapWithNeighbour exchanges order indices with the previous or next item in a single transaction.
func (r *Repository) SwapWithNeighbour(ctx context.Context, id int64, direction ports.Direction) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	swapped := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current menuItemRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}

		query := tx.Clauses(clause.Locking{Strength: "UPDATE"})
		if direction == ports.Up {
			query = query.
				Where("order_index < ? OR (order_index = ? AND id < ?)", current.OrderIndex, current.OrderIndex, current.ID).
				Order("order_index DESC").Order("id DESC")
		} else {
			query = query.
				Where("order_index > ? OR (order_index = ? AND id > ?)", current.OrderIndex, current.OrderIndex, current.ID).
				Order("order_index ASC").Order("id ASC")
		}
		var neighbour menuItemRecord
		if err := query.Take(&neighbour).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Model(&menuItemRecord{}).Where("id = ?", current.ID).
			Updates(map[string]any{"order_index": neighbour.OrderIndex, "updated_at": gorm.Expr("NOW()")}).Error; err != nil {
			return err
		}
		if err := tx.Model(&menuItemRecord{}).Where("id = ?", neighbour.ID).
			Updates(map[string]any{"order_index": current.OrderIndex, "updated_at": gorm.Expr("NOW()")}).Error; err != nil {
			return err
		}
		swapped = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return swapped, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres menu repository not configured")
	}
	return nil
}

func toRecord(item *domain.MenuItem) menuItemRecord {
	rec := menuItemRecord{
		ID:              item.ID,
		Name:            item.Name,
		Description:     item.Description,
		Price:           item.Price,
		VATRate:         item.VATRate,
		QuantityInStock: item.QuantityInStock,
		OrderIndex:      item.OrderIndex,
	}
	if item.ImagePath != "" {
		path := item.ImagePath
		rec.ImagePath = &path
	}
	return rec
}

func (r menuItemRecord) toProjection() *projection.Projection[*domain.MenuItem] {
	item := &domain.MenuItem{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		VATRate:         r.VATRate,
		QuantityInStock: r.QuantityInStock,
		OrderIndex:      r.OrderIndex,
	}
	if r.ImagePath != nil {
		item.ImagePath = *r.ImagePath
	}
	return &projection.Projection[*domain.MenuItem]{
		Entity:   item,
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}
