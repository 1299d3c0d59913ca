package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/ports"
	paymentworkflows "github.com/Apurer/go-gin-pos-server/internal/platform/temporal/workflows/payments"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

var (
	_ ports.PaymentExecutor = (*TemporalPaymentExecutor)(nil)
	_ ports.PaymentExecutor = (*InlinePaymentExecutor)(nil)
)

// TemporalPaymentExecutor runs device payments as Temporal workflows.
type TemporalPaymentExecutor struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPaymentExecutor wires a Temporal client into the executor.
func NewTemporalPaymentExecutor(c client.Client) *TemporalPaymentExecutor {
	return &TemporalPaymentExecutor{client: c, taskQueue: paymentworkflows.DevicePaymentTaskQueue}
}

// Execute starts the device payment workflow and waits for the terminal's reply.
// The workflow id is derived from the service id, so a payment is never presented twice.
func (e *TemporalPaymentExecutor) Execute(ctx context.Context, payment domain.DevicePayment) (*nexo.Response, error) {
	if e == nil || e.client == nil {
		return nil, errors.New("temporal payment executor not configured")
	}
	options := client.StartWorkflowOptions{
		ID:                    devicePaymentWorkflowID(payment),
		TaskQueue:             e.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	run, err := e.client.ExecuteWorkflow(
		ctx,
		options,
		paymentworkflows.DevicePaymentWorkflowName,
		paymentworkflows.DevicePaymentWorkflowInput{Payment: payment, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = e.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId)
	}
	var resp nexo.Response
	if err := run.Get(ctx, &resp); err != nil {
		return nil, unwrapApplicationError(err)
	}
	return &resp, nil
}

// InlinePaymentExecutor calls the terminal directly, without durable orchestration.
type InlinePaymentExecutor struct {
	sender ports.PaymentSender
}

func NewInlinePaymentExecutor(sender ports.PaymentSender) *InlinePaymentExecutor {
	return &InlinePaymentExecutor{sender: sender}
}

func (e *InlinePaymentExecutor) Execute(ctx context.Context, payment domain.DevicePayment) (*nexo.Response, error) {
	if e == nil || e.sender == nil {
		return nil, errors.New("inline payment executor not configured")
	}
	return e.sender.SendPayment(ctx, payment)
}

func devicePaymentWorkflowID(payment domain.DevicePayment) string {
	return fmt.Sprintf("device-payment-%s-%s", payment.DeviceID, payment.ServiceID)
}

// unwrapApplicationError strips the workflow and activity envelopes so callers see the terminal failure.
func unwrapApplicationError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return errors.New(appErr.Error())
	}
	return err
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}
