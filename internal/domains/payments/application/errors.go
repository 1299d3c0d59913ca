package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
)

var (
	// ErrInvalidInput signals the request violated a payment invariant.
	ErrInvalidInput = errors.New("invalid payment input")
	// ErrConflict signals the payment flow is in a stage that forbids the operation.
	ErrConflict = errors.New("payment flow conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNoDeviceSelected) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrUnknownSDKResult) ||
		errors.Is(err, domain.ErrUnsupportedSDKMethod) ||
		errors.Is(err, domain.ErrMissingSDKResultBlob) ||
		errors.Is(err, domain.ErrEmptySetupToken) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrInvalidStage) || errors.Is(err, domain.ErrNoActivePayment) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
