package mapper

import (
	settingsdomain "github.com/Apurer/go-gin-pos-server/internal/domains/settings/domain"
)

type MerchantConfigPayload struct {
	MerchantAccount string `json:"merchantAccount" binding:"required"`
	Store           string `json:"store"`
	APIKey          string `json:"apiKey" binding:"required"`
}

// MerchantConfig is returned with the API key masked.
type MerchantConfig struct {
	MerchantAccount string `json:"merchantAccount"`
	Store           string `json:"store,omitempty"`
	APIKey          string `json:"apiKey"`
}

type CurrencyPayload struct {
	Code string `json:"code" binding:"required"`
}

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

type Logo struct {
	Path string `json:"path"`
}

func ToDomainMerchantConfig(payload MerchantConfigPayload) *settingsdomain.MerchantConfig {
	return &settingsdomain.MerchantConfig{
		MerchantAccount: payload.MerchantAccount,
		Store:           payload.Store,
		APIKey:          payload.APIKey,
	}
}

func FromDomainMerchantConfig(cfg *settingsdomain.MerchantConfig) MerchantConfig {
	if cfg == nil {
		return MerchantConfig{}
	}
	return MerchantConfig{
		MerchantAccount: cfg.MerchantAccount,
		Store:           cfg.Store,
		APIKey:          maskSecret(cfg.APIKey),
	}
}

func FromDomainCurrency(c settingsdomain.Currency) Currency {
	return Currency{Code: c.Code, Symbol: c.Symbol}
}

func FromDomainCurrencies(list []settingsdomain.Currency) []Currency {
	out := make([]Currency, 0, len(list))
	for _, c := range list {
		out = append(out, FromDomainCurrency(c))
	}
	return out
}

func maskSecret(secret string) string {
	const visible = 4
	if len(secret) <= visible {
		return "****"
	}
	return "****" + secret[len(secret)-visible:]
}
