package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated an order invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrPreconditionFailed signals the payment outcome cannot produce an order.
	ErrPreconditionFailed = errors.New("order precondition failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingPaymentMethod) ||
		errors.Is(err, domain.ErrInvalidItemQuantity) ||
		errors.Is(err, domain.ErrNegativeAmount) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrMissingTransactionID) || errors.Is(err, domain.ErrNoItems) {
		return fmt.Errorf("%w: %w", ErrPreconditionFailed, err)
	}
	return err
}
