package workflows

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	paymentworkflows "github.com/Apurer/go-gin-pos-server/internal/platform/temporal/workflows/payments"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

type recordingSender struct {
	payments []domain.DevicePayment
	resp     *nexo.Response
	err      error
}

func (s *recordingSender) SendPayment(_ context.Context, payment domain.DevicePayment) (*nexo.Response, error) {
	s.payments = append(s.payments, payment)
	return s.resp, s.err
}

func payment() domain.DevicePayment {
	return domain.DevicePayment{ServiceID: "120045", DeviceID: "S1F2-000158", Currency: "EUR", Amount: decimal.RequireFromString("12.00")}
}

func approved(transactionID string) nexo.Response {
	return nexo.Response{SaleToPOIResponse: &nexo.SaleToPOIResponse{PaymentResponse: &nexo.PaymentResponse{
		Response: &nexo.Result{Result: nexo.ResultSuccess},
		POIData:  &nexo.POIData{POITransactionID: &nexo.POITransactionID{TransactionID: transactionID}},
	}}}
}

func TestInlinePaymentExecutor_DelegatesToSender(t *testing.T) {
	reply := approved("T-9")
	sender := &recordingSender{resp: &reply}

	resp, err := NewInlinePaymentExecutor(sender).Execute(context.Background(), payment())
	require.NoError(t, err)
	assert.Equal(t, "T-9", resp.TransactionID())
	require.Len(t, sender.payments, 1)
	assert.Equal(t, "120045", sender.payments[0].ServiceID)

	_, err = NewInlinePaymentExecutor(nil).Execute(context.Background(), payment())
	require.Error(t, err)
}

func TestTemporalPaymentExecutor_StartsWorkflowPerServiceID(t *testing.T) {
	temporalClient := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	temporalClient.On("ExecuteWorkflow",
		mock.Anything,
		mock.MatchedBy(func(opts client.StartWorkflowOptions) bool {
			return opts.ID == "device-payment-S1F2-000158-120045" &&
				opts.TaskQueue == paymentworkflows.DevicePaymentTaskQueue &&
				opts.WorkflowIDReusePolicy == enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE
		}),
		paymentworkflows.DevicePaymentWorkflowName,
		mock.MatchedBy(func(input paymentworkflows.DevicePaymentWorkflowInput) bool {
			return input.Payment.ServiceID == "120045"
		}),
	).Return(run, nil).Once()
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(1).(*nexo.Response) = approved("T-10")
	}).Return(nil).Once()

	resp, err := NewTemporalPaymentExecutor(temporalClient).Execute(context.Background(), payment())
	require.NoError(t, err)
	assert.True(t, resp.Approved())
	assert.Equal(t, "T-10", resp.TransactionID())
	temporalClient.AssertExpectations(t)
	run.AssertExpectations(t)
}

func TestTemporalPaymentExecutor_AttachesToRunningPayment(t *testing.T) {
	temporalClient := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	alreadyStarted := serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "req-1", "run-7")
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, alreadyStarted).Once()
	temporalClient.On("GetWorkflow", mock.Anything, "device-payment-S1F2-000158-120045", "run-7").Return(run).Once()
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(1).(*nexo.Response) = approved("T-11")
	}).Return(nil).Once()

	resp, err := NewTemporalPaymentExecutor(temporalClient).Execute(context.Background(), payment())
	require.NoError(t, err)
	assert.Equal(t, "T-11", resp.TransactionID())
	temporalClient.AssertExpectations(t)
	run.AssertExpectations(t)
}

func TestTemporalPaymentExecutor_SurfacesActivityFailure(t *testing.T) {
	temporalClient := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(run, nil)
	failure := fmt.Errorf("workflow execution error: %w", temporal.NewApplicationError("terminal unreachable", "StatusError"))
	run.On("Get", mock.Anything, mock.Anything).Return(failure)

	_, err := NewTemporalPaymentExecutor(temporalClient).Execute(context.Background(), payment())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal unreachable")
	assert.NotContains(t, err.Error(), "workflow execution error")
}

func TestTemporalPaymentExecutor_StartFailure(t *testing.T) {
	temporalClient := &mocks.Client{}
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("namespace not found"))

	_, err := NewTemporalPaymentExecutor(temporalClient).Execute(context.Background(), payment())
	require.EqualError(t, err, "namespace not found")

	_, err = NewTemporalPaymentExecutor(nil).Execute(context.Background(), payment())
	require.Error(t, err)
}
