//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-pos-server/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func TestRepository_CreateAndReadBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, err := domain.NewOrder("reg-1", "SEK", domain.PaymentMethodTerminal, "T1", []domain.OrderItem{
		{MenuItemID: 1, Name: "Flat white", Quantity: 2, PriceAtPurchase: decimal.RequireFromString("10.00")},
		{MenuItemID: 2, Name: "Croissant", Quantity: 3, PriceAtPurchase: decimal.RequireFromString("5.00")},
	}, time.Now())
	require.NoError(t, err)

	saved, err := repo.Create(ctx, order)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	fetched, err := repo.GetByTransactionID(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Len(t, fetched.Items, 2)
	assert.True(t, decimal.RequireFromString("35").Equal(fetched.TotalAmount))

	_, err = repo.Create(ctx, order)
	require.ErrorIs(t, err, ports.ErrDuplicateTransaction)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = repo.GetByID(ctx, saved.ID+100)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
