package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/ports"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

const (
	DefaultDiscoveryTimeout = 30 * time.Second
	// DefaultPaymentTimeout leaves headroom over the terminal client's own timeout.
	DefaultPaymentTimeout = 160 * time.Second
)

var errExecutorNotConfigured = errors.New("payment executor not configured")

// Orchestrator drives one register through device selection, payment and result.
// Network calls run on background goroutines and never hold the lock.
// Results that arrive after the flow moved on are dropped: discovery by epoch, payments by service id.
type Orchestrator struct {
	mu sync.Mutex

	directory ports.DeviceDirectory
	executor  ports.PaymentExecutor
	aborter   ports.Aborter

	newServiceID     func() string
	logger           *slog.Logger
	discoveryTimeout time.Duration
	paymentTimeout   time.Duration

	state domain.Snapshot
	epoch uint64
}

type OrchestratorOption func(*Orchestrator)

func WithOrchestratorLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func WithServiceIDs(next func() string) OrchestratorOption {
	return func(o *Orchestrator) {
		if next != nil {
			o.newServiceID = next
		}
	}
}

func WithTimeouts(discovery, payment time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if discovery > 0 {
			o.discoveryTimeout = discovery
		}
		if payment > 0 {
			o.paymentTimeout = payment
		}
	}
}

func NewOrchestrator(directory ports.DeviceDirectory, executor ports.PaymentExecutor, aborter ports.Aborter, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		directory:        directory,
		executor:         executor,
		aborter:          aborter,
		newServiceID:     nexo.NewServiceID,
		discoveryTimeout: DefaultDiscoveryTimeout,
		paymentTimeout:   DefaultPaymentTimeout,
		state:            domain.Snapshot{Stage: domain.StageSelectDevice},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *Orchestrator) Snapshot() domain.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Clone()
}

// RefreshDevices starts a discovery call and marks the state as loading.
func (o *Orchestrator) RefreshDevices(ctx context.Context) (domain.Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Stage != domain.StageSelectDevice {
		return o.state.Clone(), domain.ErrInvalidStage
	}
	o.startDiscoveryLocked(ctx)
	return o.state.Clone(), nil
}

func (o *Orchestrator) SelectDevice(deviceID string) (domain.Snapshot, error) {
	deviceID = strings.TrimSpace(deviceID)
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Stage != domain.StageSelectDevice {
		return o.state.Clone(), domain.ErrInvalidStage
	}
	if deviceID == "" {
		return o.state.Clone(), domain.ErrNoDeviceSelected
	}
	o.state.SelectedDevice = deviceID
	return o.state.Clone(), nil
}

// StartPayment assigns a fresh service id and sends the payment to the selected terminal in the background.
func (o *Orchestrator) StartPayment(ctx context.Context, amount decimal.Decimal, currency string) (domain.Snapshot, error) {
	o.mu.Lock()
	if o.state.Stage != domain.StageSelectDevice {
		defer o.mu.Unlock()
		return o.state.Clone(), domain.ErrInvalidStage
	}
	if o.state.SelectedDevice == "" {
		defer o.mu.Unlock()
		return o.state.Clone(), domain.ErrNoDeviceSelected
	}
	if !amount.IsPositive() {
		defer o.mu.Unlock()
		return o.state.Clone(), domain.ErrInvalidAmount
	}

	payment := domain.DevicePayment{
		ServiceID: o.newServiceID(),
		DeviceID:  o.state.SelectedDevice,
		Currency:  strings.ToUpper(strings.TrimSpace(currency)),
		Amount:    amount,
	}
	o.epoch++
	o.state.Stage = domain.StagePaymentInProgress
	o.state.Loading = false
	o.state.ServiceID = payment.ServiceID
	o.state.Amount = payment.Amount
	o.state.Currency = payment.Currency
	o.state.Result = nil
	snapshot := o.state.Clone()
	o.mu.Unlock()

	o.logInfo(ctx, "device payment started",
		slog.String("service_id", payment.ServiceID),
		slog.String("device_id", payment.DeviceID),
		slog.String("amount", payment.Amount.String()),
		slog.String("currency", payment.Currency))
	go o.pay(context.WithoutCancel(ctx), payment)
	return snapshot, nil
}

// Abort asks the terminal to stop the current payment. The stage is left alone;
// the terminal's reply to the original request moves the flow on.
func (o *Orchestrator) Abort(ctx context.Context) (domain.Snapshot, error) {
	o.mu.Lock()
	snapshot := o.state.Clone()
	o.mu.Unlock()

	if snapshot.ServiceID == "" {
		return snapshot, domain.ErrNoActivePayment
	}
	if snapshot.Stage != domain.StagePaymentInProgress {
		return snapshot, domain.ErrInvalidStage
	}
	if o.aborter == nil {
		return snapshot, errors.New("terminal aborter not configured")
	}
	if err := o.aborter.SendAbort(ctx, snapshot.ServiceID, snapshot.SelectedDevice); err != nil {
		o.logError(ctx, "device payment abort failed", err, slog.String("service_id", snapshot.ServiceID))
		return snapshot, err
	}
	o.logInfo(ctx, "device payment abort sent", slog.String("service_id", snapshot.ServiceID))
	return o.Snapshot(), nil
}

// Cancel returns to device selection from any stage and forgets every correlation id.
// An in-flight payment call is not interrupted; its result is ignored when it lands.
func (o *Orchestrator) Cancel(ctx context.Context) domain.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.ServiceID != "" {
		o.logInfo(ctx, "device payment cancelled", slog.String("service_id", o.state.ServiceID))
	}
	o.resetLocked()
	o.startDiscoveryLocked(ctx)
	return o.state.Clone()
}

// Dismiss closes a finished payment. For a successful outcome finalize runs first;
// if it fails the result stays in place so the dismissal can be retried.
func (o *Orchestrator) Dismiss(ctx context.Context, finalize func(context.Context, domain.Outcome) error) (domain.Outcome, error) {
	o.mu.Lock()
	if o.state.Stage != domain.StagePaymentResult || o.state.Result == nil {
		o.mu.Unlock()
		return domain.Outcome{}, domain.ErrInvalidStage
	}
	outcome := *o.state.Result
	serviceID := o.state.ServiceID
	o.mu.Unlock()

	if outcome.Success && finalize != nil {
		if err := finalize(ctx, outcome); err != nil {
			o.logError(ctx, "payment finalization failed", err, slog.String("service_id", serviceID))
			return outcome, err
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Stage == domain.StagePaymentResult && o.state.ServiceID == serviceID {
		o.resetLocked()
		o.startDiscoveryLocked(ctx)
	}
	return outcome, nil
}

func (o *Orchestrator) resetLocked() {
	o.epoch++
	o.state = domain.Snapshot{Stage: domain.StageSelectDevice}
}

func (o *Orchestrator) startDiscoveryLocked(ctx context.Context) {
	if o.directory == nil {
		return
	}
	o.epoch++
	o.state.Loading = true
	o.state.DiscoveryError = ""
	go o.discover(context.WithoutCancel(ctx), o.epoch)
}

func (o *Orchestrator) discover(ctx context.Context, epoch uint64) {
	ctx, cancel := context.WithTimeout(ctx, o.discoveryTimeout)
	defer cancel()
	devices, err := o.directory.ListDevices(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	if epoch != o.epoch || o.state.Stage != domain.StageSelectDevice {
		o.logDebug(ctx, "stale device discovery discarded")
		return
	}
	o.state.Loading = false
	if err != nil {
		o.state.Devices = []string{}
		o.state.DiscoveryError = err.Error()
		o.logError(ctx, "device discovery failed", err)
		return
	}
	o.state.Devices = append([]string{}, devices...)
	o.logInfo(ctx, "devices discovered", slog.Int("devices", len(devices)))
}

func (o *Orchestrator) pay(ctx context.Context, payment domain.DevicePayment) {
	ctx, cancel := context.WithTimeout(ctx, o.paymentTimeout)
	defer cancel()

	var (
		resp *nexo.Response
		err  = errExecutorNotConfigured
	)
	if o.executor != nil {
		resp, err = o.executor.Execute(ctx, payment)
	}
	if err != nil {
		o.logError(ctx, "device payment call failed", err, slog.String("service_id", payment.ServiceID))
	}
	outcome := domain.NewOutcome(resp, err)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Stage != domain.StagePaymentInProgress || o.state.ServiceID != payment.ServiceID {
		o.logInfo(ctx, "late payment result ignored", slog.String("service_id", payment.ServiceID), slog.String("outcome", string(outcome.Kind)))
		return
	}
	o.state.Stage = domain.StagePaymentResult
	o.state.Result = &outcome
	o.logInfo(ctx, "device payment finished",
		slog.String("service_id", payment.ServiceID),
		slog.String("outcome", string(outcome.Kind)),
		slog.String("transaction_id", outcome.TransactionID))
}

func (o *Orchestrator) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if o.logger == nil {
		return
	}
	o.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func (o *Orchestrator) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if o.logger == nil {
		return
	}
	o.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (o *Orchestrator) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if o.logger == nil {
		return
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	o.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}
