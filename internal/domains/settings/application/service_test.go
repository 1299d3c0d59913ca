package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-pos-server/internal/domains/settings/adapters/memory"
	"github.com/Apurer/go-gin-pos-server/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/settings/ports"
)

func TestMerchantConfig_NotConfigured(t *testing.T) {
	svc := NewService(memory.NewStore())
	_, err := svc.MerchantConfig(context.Background())
	require.ErrorIs(t, err, ports.ErrNotConfigured)
}

func TestSaveMerchantConfig_ReplacesWholeRecord(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.SaveMerchantConfig(ctx, &domain.MerchantConfig{MerchantAccount: " DemoMerchant ", Store: "ST1", APIKey: "key-1"})
	require.NoError(t, err)
	_, err = svc.SaveMerchantConfig(ctx, &domain.MerchantConfig{MerchantAccount: "Other", APIKey: "key-2"})
	require.NoError(t, err)

	cfg, err := svc.MerchantConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.MerchantConfig{MerchantAccount: "Other", APIKey: "key-2"}, *cfg)

	raw, ok, err := store.Get(ctx, domain.KeyMerchantConfig)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"merchantAccount":"Other","apiKey":"key-2"}`, raw)
}

func TestSaveMerchantConfig_Validation(t *testing.T) {
	svc := NewService(memory.NewStore())
	_, err := svc.SaveMerchantConfig(context.Background(), &domain.MerchantConfig{MerchantAccount: "M", APIKey: " "})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyAPIKey)
}

func TestCurrency_DefaultsAndSelection(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	current, err := svc.Currency(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Currency{Code: "SEK", Symbol: "kr"}, current)

	selected, err := svc.SetCurrency(ctx, "eur")
	require.NoError(t, err)
	assert.Equal(t, "€", selected.Symbol)

	current, err = svc.Currency(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EUR", current.Code)

	_, err = svc.SetCurrency(ctx, "JPY")
	require.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, store.Put(ctx, domain.KeySelectedCurrency, "XXX"))
	current, err = svc.Currency(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SEK", current.Code)
}

func TestLogo_BlankClears(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	ref, err := svc.SetLogo(ctx, "content://media/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "content://media/logo.png", ref)

	ref, err = svc.SetLogo(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, ref)

	_, ok, err := store.Get(ctx, domain.KeyLogoPath)
	require.NoError(t, err)
	assert.False(t, ok)
}
