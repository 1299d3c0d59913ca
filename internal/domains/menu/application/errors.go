package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-pos-server/internal/domains/menu/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid menu item input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidVATRate) ||
		errors.Is(err, domain.ErrInvalidStock) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
