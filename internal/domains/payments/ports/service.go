package ports

import (
	"context"

	ordersdomain "github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
)

// DismissResult carries the dismissed outcome and the order it produced, if any.
type DismissResult struct {
	Outcome domain.Outcome
	Order   *ordersdomain.Order
}

// CheckoutResult is the server's answer to an SDK result.
type CheckoutResult struct {
	Kind    domain.SDKResultKind
	Outcome domain.Outcome
	Order   *ordersdomain.Order
}

// Service exposes the payment flows of every register to adapters.
type Service interface {
	State(ctx context.Context, registerID string) (domain.Snapshot, error)
	RefreshDevices(ctx context.Context, registerID string) (domain.Snapshot, error)
	SelectDevice(ctx context.Context, registerID, deviceID string) (domain.Snapshot, error)
	StartPayment(ctx context.Context, registerID string) (domain.Snapshot, error)
	Abort(ctx context.Context, registerID string) (domain.Snapshot, error)
	Cancel(ctx context.Context, registerID string) (domain.Snapshot, error)
	Dismiss(ctx context.Context, registerID string) (*DismissResult, error)
	CheckoutSDK(ctx context.Context, registerID string, result domain.SDKResult) (*CheckoutResult, error)
	AuthenticateSDK(ctx context.Context, setupToken string) (*domain.SDKSession, error)
}
