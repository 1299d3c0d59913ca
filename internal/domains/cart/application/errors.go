package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-pos-server/internal/domains/cart/domain"
)

var (
	// ErrInvalidInput signals the request violated a cart invariant.
	ErrInvalidInput = errors.New("invalid cart input")
	// ErrConflict signals the cart is in a state that forbids the operation.
	ErrConflict = errors.New("cart conflict")
	// ErrLineNotFound signals the cart has no line for the menu item.
	ErrLineNotFound = errors.New("cart line not found")
	// ErrLimitExceeded signals a well-formed request the cart cannot absorb.
	ErrLimitExceeded = errors.New("cart limit exceeded")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyRegisterID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidItem) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrCartLocked) || errors.Is(err, domain.ErrEmptyCart) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	if errors.Is(err, domain.ErrQuantityLimit) {
		return fmt.Errorf("%w: %w", ErrLimitExceeded, err)
	}
	if errors.Is(err, domain.ErrItemNotInCart) {
		return fmt.Errorf("%w: %w", ErrLineNotFound, err)
	}
	return err
}
