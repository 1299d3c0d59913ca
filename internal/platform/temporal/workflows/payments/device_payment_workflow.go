package payments

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-pos-server/internal/platform/temporal/sequences"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

const (
	// DevicePaymentWorkflowName is the public identifier for registering the workflow.
	DevicePaymentWorkflowName = "payments.workflows.DevicePayment"
	// DevicePaymentTaskQueue is the queue consumed by the worker processing terminal payments.
	DevicePaymentTaskQueue = "DEVICE_PAYMENT"
)

// DevicePaymentWorkflowInput captures the payment to present on a terminal.
type DevicePaymentWorkflowInput struct {
	Payment domain.DevicePayment
	TraceID string
}

// DevicePaymentWorkflow runs one terminal payment and returns the terminal's reply.
func DevicePaymentWorkflow(ctx workflow.Context, input DevicePaymentWorkflowInput) (*nexo.Response, error) {
	logger := workflow.GetLogger(ctx)
	serviceID := input.Payment.ServiceID
	logger.Info("DevicePaymentWorkflow started", withTraceID(input.TraceID, "serviceId", serviceID)...)
	resp, err := sequences.RunDevicePaymentSequence(ctx, input.Payment)
	if err != nil {
		logger.Error("DevicePaymentWorkflow failed", withTraceID(input.TraceID, "serviceId", serviceID, "error", err)...)
		return nil, err
	}
	logger.Info("DevicePaymentWorkflow completed", withTraceID(input.TraceID, "serviceId", serviceID, "approved", resp.Approved())...)
	return resp, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
