package ports

import (
	"context"

	"github.com/Apurer/go-gin-pos-server/internal/domains/settings/domain"
)

// Service exposes settings use cases to adapters.
type Service interface {
	MerchantConfig(ctx context.Context) (*domain.MerchantConfig, error)
	SaveMerchantConfig(ctx context.Context, cfg *domain.MerchantConfig) (*domain.MerchantConfig, error)
	Currency(ctx context.Context) (domain.Currency, error)
	SetCurrency(ctx context.Context, code string) (domain.Currency, error)
	Logo(ctx context.Context) (string, error)
	// SetLogo stores the logo reference; a blank reference clears it.
	SetLogo(ctx context.Context, ref string) (string, error)
}
