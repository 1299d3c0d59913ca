package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-pos-server/internal/domains/settings/domain"
)

// ErrInvalidInput signals the request violated a settings invariant.
var ErrInvalidInput = errors.New("invalid settings input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyMerchantAccount) ||
		errors.Is(err, domain.ErrEmptyAPIKey) ||
		errors.Is(err, domain.ErrUnsupportedCurrency) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
