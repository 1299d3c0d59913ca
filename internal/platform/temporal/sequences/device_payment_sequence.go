package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	paymentactivities "github.com/Apurer/go-gin-pos-server/internal/platform/temporal/activities/payments"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

// DevicePaymentTimeout bounds a single terminal round trip, including the customer at the device.
const DevicePaymentTimeout = 160 * time.Second

// RunDevicePaymentSequence sends the payment exactly once. A retry would present a second
// charge to the customer, so failures are reported instead.
func RunDevicePaymentSequence(ctx workflow.Context, payment domain.DevicePayment) (*nexo.Response, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("device payment sequence started", "serviceId", payment.ServiceID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: DevicePaymentTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var resp nexo.Response
	if err := workflow.ExecuteActivity(ctx, paymentactivities.SendDevicePaymentActivityName, payment).Get(ctx, &resp); err != nil {
		logger.Error("device payment sequence failed", "serviceId", payment.ServiceID, "error", err)
		return nil, err
	}
	logger.Info("device payment sequence completed", "serviceId", payment.ServiceID, "result", resp.ResultCode())
	return &resp, nil
}
