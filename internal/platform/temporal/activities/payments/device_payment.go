package payments

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/ports"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

// SendDevicePaymentActivityName sends one payment request to a terminal and waits for its answer.
const SendDevicePaymentActivityName = "payments.activities.SendDevicePayment"

// Activities groups activities that talk to payment terminals.
type Activities struct {
	sender ports.PaymentSender
}

// NewActivities wires the terminal gateway into the Temporal activities bundle.
func NewActivities(sender ports.PaymentSender) *Activities {
	return &Activities{sender: sender}
}

// SendDevicePayment blocks until the terminal replies. A reply of any result is returned as-is;
// only transport failures surface as errors.
func (a *Activities) SendDevicePayment(ctx context.Context, payment domain.DevicePayment) (*nexo.Response, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.sender == nil {
		logger.Error("device payment activity not initialized", "serviceId", payment.ServiceID)
		return nil, errors.New("device payment activity not initialized")
	}
	logger.Info("SendDevicePayment activity started", "serviceId", payment.ServiceID, "deviceId", payment.DeviceID)
	resp, err := a.sender.SendPayment(ctx, payment)
	if err != nil {
		logger.Error("SendDevicePayment activity failed", "serviceId", payment.ServiceID, "error", err)
		return nil, err
	}
	logger.Info("SendDevicePayment activity completed",
		"serviceId", payment.ServiceID,
		"result", resp.ResultCode(),
		"transactionId", resp.TransactionID())
	return resp, nil
}
