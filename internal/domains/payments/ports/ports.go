package ports

import (
	"context"

	cartdomain "github.com/Apurer/go-gin-pos-server/internal/domains/cart/domain"
	ordersdomain "github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	settingsdomain "github.com/Apurer/go-gin-pos-server/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

// DeviceDirectory discovers terminals connected to the merchant account.
type DeviceDirectory interface {
	ListDevices(ctx context.Context) ([]string, error)
}

// PaymentSender delivers a payment request to a terminal.
type PaymentSender interface {
	// SendPayment blocks until the terminal answers or the call times out.
	SendPayment(ctx context.Context, payment domain.DevicePayment) (*nexo.Response, error)
}

// TerminalGateway performs the calls to the cloud terminal API.
type TerminalGateway interface {
	DeviceDirectory
	PaymentSender
	Aborter
	AuthenticateSDK(ctx context.Context, setupToken string) (*domain.SDKSession, error)
}

// PaymentExecutor runs one device payment to completion, inline or durably.
type PaymentExecutor interface {
	Execute(ctx context.Context, payment domain.DevicePayment) (*nexo.Response, error)
}

// Aborter sends a merchant abort for an in-flight payment.
type Aborter interface {
	SendAbort(ctx context.Context, serviceID, deviceID string) error
}

// CartLock freezes a register's cart for the duration of a payment.
type CartLock interface {
	LockForPayment(ctx context.Context, registerID string) (*cartdomain.Cart, error)
	Unlock(ctx context.Context, registerID string) (*cartdomain.Cart, error)
}

// CurrencySource returns the merchant's selected currency.
type CurrencySource interface {
	Currency(ctx context.Context) (settingsdomain.Currency, error)
}

// OrderFinalizer records approved payments as orders.
type OrderFinalizer interface {
	Finalize(ctx context.Context, input ordersports.FinalizeInput) (*ordersdomain.Order, error)
}
