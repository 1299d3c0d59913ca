package domain

import (
	"errors"
	"strings"
)

// Preference keys.
const (
	KeyMerchantConfig   = "merchant_config"
	KeySelectedCurrency = "selected_currency"
	KeyLogoPath         = "logotype_uri_path"
)

var (
	ErrEmptyMerchantAccount = errors.New("merchant account must not be empty")
	ErrEmptyAPIKey          = errors.New("api key must not be empty")
	ErrUnsupportedCurrency  = errors.New("unsupported currency")
)

// MerchantConfig is the single active set of merchant credentials. Saving replaces it entirely.
type MerchantConfig struct {
	MerchantAccount string `json:"merchantAccount"`
	Store           string `json:"store,omitempty"`
	APIKey          string `json:"apiKey"`
}

func NewMerchantConfig(merchantAccount, store, apiKey string) (*MerchantConfig, error) {
	cfg := &MerchantConfig{
		MerchantAccount: strings.TrimSpace(merchantAccount),
		Store:           strings.TrimSpace(store),
		APIKey:          strings.TrimSpace(apiKey),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *MerchantConfig) Validate() error {
	if c.MerchantAccount == "" {
		return ErrEmptyMerchantAccount
	}
	if c.APIKey == "" {
		return ErrEmptyAPIKey
	}
	return nil
}

// Currency is a supported ISO 4217 code and its display symbol.
type Currency struct {
	Code   string
	Symbol string
}

var currencies = []Currency{
	{Code: "SEK", Symbol: "kr"},
	{Code: "EUR", Symbol: "€"},
	{Code: "USD", Symbol: "$"},
	{Code: "GBP", Symbol: "£"},
	{Code: "AUD", Symbol: "$"},
	{Code: "NOK", Symbol: "Kr"},
	{Code: "DKK", Symbol: "kr"},
}

// DefaultCurrency applies when nothing valid is stored.
func DefaultCurrency() Currency {
	return currencies[0]
}

// Currencies lists the supported currencies in display order.
func Currencies() []Currency {
	return append([]Currency{}, currencies...)
}

func LookupCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range currencies {
		if c.Code == code {
			return c, nil
		}
	}
	return Currency{}, ErrUnsupportedCurrency
}
