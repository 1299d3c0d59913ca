package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Apurer/go-gin-pos-server/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/settings/ports"
)

// Service reads and writes merchant preferences.
type Service struct {
	store  ports.Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(store ports.Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) MerchantConfig(ctx context.Context) (*domain.MerchantConfig, error) {
	raw, ok, err := s.store.Get(ctx, domain.KeyMerchantConfig)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, ports.ErrNotConfigured
	}
	var cfg domain.MerchantConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("decode merchant config: %w", err)
	}
	return &cfg, nil
}

func (s *Service) SaveMerchantConfig(ctx context.Context, cfg *domain.MerchantConfig) (*domain.MerchantConfig, error) {
	if cfg == nil {
		return nil, errors.New("merchant config is nil")
	}
	normalized, err := domain.NewMerchantConfig(cfg.MerchantAccount, cfg.Store, cfg.APIKey)
	if err != nil {
		return nil, mapError(err)
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, domain.KeyMerchantConfig, string(raw)); err != nil {
		return nil, err
	}
	s.logInfo(ctx, "merchant config saved", slog.String("merchant_account", normalized.MerchantAccount), slog.Bool("store_set", normalized.Store != ""))
	return normalized, nil
}

// Currency falls back to the default when nothing or an unknown code is stored.
func (s *Service) Currency(ctx context.Context) (domain.Currency, error) {
	raw, ok, err := s.store.Get(ctx, domain.KeySelectedCurrency)
	if err != nil {
		return domain.Currency{}, err
	}
	if !ok {
		return domain.DefaultCurrency(), nil
	}
	currency, err := domain.LookupCurrency(raw)
	if err != nil {
		return domain.DefaultCurrency(), nil
	}
	return currency, nil
}

func (s *Service) SetCurrency(ctx context.Context, code string) (domain.Currency, error) {
	currency, err := domain.LookupCurrency(code)
	if err != nil {
		return domain.Currency{}, mapError(err)
	}
	if err := s.store.Put(ctx, domain.KeySelectedCurrency, currency.Code); err != nil {
		return domain.Currency{}, err
	}
	s.logInfo(ctx, "currency selected", slog.String("currency", currency.Code))
	return currency, nil
}

func (s *Service) Logo(ctx context.Context) (string, error) {
	raw, _, err := s.store.Get(ctx, domain.KeyLogoPath)
	return raw, err
}

func (s *Service) SetLogo(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", s.store.Delete(ctx, domain.KeyLogoPath)
	}
	if err := s.store.Put(ctx, domain.KeyLogoPath, ref); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

var _ ports.Service = (*Service)(nil)
