//go:build integration

package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Apurer/go-gin-pos-server/internal/domains/cart/domain"
)

func setupRedisContainer(t *testing.T) (*goredis.Client, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	require.NoError(t, client.Ping(ctx).Err())

	cleanup := func() {
		_ = client.Close()
		_ = container.Terminate(ctx)
	}
	return client, cleanup
}

func TestStore_UpdateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewStore(client, WithTTL(time.Hour))
	ctx := context.Background()

	empty, err := store.Get(ctx, "reg-1")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = store.Update(ctx, "reg-1", func(c *domain.Cart) error {
		return c.Add(domain.Line{MenuItemID: 1, Name: "Latte", UnitPrice: decimal.RequireFromString("45.50"), Quantity: 2})
	})
	require.NoError(t, err)

	cart, err := store.Get(ctx, "reg-1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.True(t, decimal.RequireFromString("91").Equal(cart.Total()))

	ttl, err := client.TTL(ctx, keyPrefix+"reg-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestStore_FailedMutationWritesNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewStore(client)
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := store.Update(ctx, "reg-2", func(c *domain.Cart) error {
		_ = c.Add(domain.Line{MenuItemID: 1, Quantity: 1})
		return boom
	})
	require.ErrorIs(t, err, boom)

	exists, err := client.Exists(ctx, keyPrefix+"reg-2").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestStore_ConcurrentAddsAreNotLost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewStore(client)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				_, err := store.Update(ctx, "reg-3", func(c *domain.Cart) error {
					return c.Add(domain.Line{MenuItemID: 7, UnitPrice: decimal.NewFromInt(1), Quantity: 1})
				})
				if !errors.Is(err, ErrContention) {
					assert.NoError(t, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	cart, err := store.Get(ctx, "reg-3")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int32(4), cart.Lines[0].Quantity)

	require.NoError(t, store.Delete(ctx, "reg-3"))
	cart, err = store.Get(ctx, "reg-3")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}
