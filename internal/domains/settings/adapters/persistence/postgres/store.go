package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-pos-server/internal/domains/settings/ports"
)

var _ ports.Store = (*Store)(nil)

// Store persists preferences in the preferences table.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

type preferenceRecord struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (preferenceRecord) TableName() string { return "preferences" }

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := s.ensureDB(); err != nil {
		return "", false, err
	}
	var record preferenceRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return record.Value, true, nil
}

// Put upserts the value.
func (s *Store) Put(ctx context.Context, key, value string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	record := preferenceRecord{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&preferenceRecord{}, "key = ?", key).Error
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres preference store not configured")
	}
	return nil
}
