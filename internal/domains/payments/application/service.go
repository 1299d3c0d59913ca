package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	ordersdomain "github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/ports"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

var errEmptyRegisterID = errors.New("register id must not be empty")

// Dependencies are the collaborators of the payments service.
type Dependencies struct {
	Gateway    ports.TerminalGateway
	Executor   ports.PaymentExecutor
	Carts      ports.CartLock
	Currencies ports.CurrencySource
	Orders     ports.OrderFinalizer
}

// Service keeps one orchestrator per register and binds each to that register's cart.
type Service struct {
	deps   Dependencies
	logger *slog.Logger

	orchestratorOpts []OrchestratorOption

	mu        sync.Mutex
	registers map[string]*register
}

// register serialises flow transitions that touch the cart lock.
type register struct {
	mu           sync.Mutex
	orchestrator *Orchestrator
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithOrchestratorOptions applies to every orchestrator the service creates.
func WithOrchestratorOptions(opts ...OrchestratorOption) Option {
	return func(s *Service) {
		s.orchestratorOpts = append(s.orchestratorOpts, opts...)
	}
}

func NewService(deps Dependencies, opts ...Option) *Service {
	s := &Service{deps: deps, registers: map[string]*register{}}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) State(_ context.Context, registerID string) (domain.Snapshot, error) {
	reg, err := s.register(registerID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return reg.orchestrator.Snapshot(), nil
}

func (s *Service) RefreshDevices(ctx context.Context, registerID string) (domain.Snapshot, error) {
	reg, err := s.register(registerID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snapshot, err := reg.orchestrator.RefreshDevices(ctx)
	return snapshot, mapError(err)
}

func (s *Service) SelectDevice(_ context.Context, registerID, deviceID string) (domain.Snapshot, error) {
	reg, err := s.register(registerID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snapshot, err := reg.orchestrator.SelectDevice(deviceID)
	return snapshot, mapError(err)
}

// StartPayment locks the register's cart and charges its total on the selected terminal.
func (s *Service) StartPayment(ctx context.Context, registerID string) (domain.Snapshot, error) {
	reg, err := s.register(registerID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()

	current := reg.orchestrator.Snapshot()
	if current.Stage != domain.StageSelectDevice {
		return current, mapError(domain.ErrInvalidStage)
	}
	if current.SelectedDevice == "" {
		return current, mapError(domain.ErrNoDeviceSelected)
	}
	if s.deps.Carts == nil || s.deps.Currencies == nil {
		return current, errors.New("payments service missing cart or currency source")
	}
	currency, err := s.deps.Currencies.Currency(ctx)
	if err != nil {
		return current, err
	}
	cart, err := s.deps.Carts.LockForPayment(ctx, registerID)
	if err != nil {
		return current, err
	}
	snapshot, err := reg.orchestrator.StartPayment(ctx, cart.Total(), currency.Code)
	if err != nil {
		s.unlockCart(ctx, registerID)
		return snapshot, mapError(err)
	}
	return snapshot, nil
}

func (s *Service) Abort(ctx context.Context, registerID string) (domain.Snapshot, error) {
	reg, err := s.register(registerID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snapshot, err := reg.orchestrator.Abort(ctx)
	return snapshot, mapError(err)
}

// Cancel resets the flow and releases the cart if a payment had been started.
func (s *Service) Cancel(ctx context.Context, registerID string) (domain.Snapshot, error) {
	reg, err := s.register(registerID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()

	previous := reg.orchestrator.Snapshot()
	snapshot := reg.orchestrator.Cancel(ctx)
	if previous.Stage != domain.StageSelectDevice {
		s.unlockCart(ctx, registerID)
	}
	return snapshot, nil
}

// Dismiss finalizes an approved payment into an order, or releases the cart otherwise.
func (s *Service) Dismiss(ctx context.Context, registerID string) (*ports.DismissResult, error) {
	reg, err := s.register(registerID)
	if err != nil {
		return nil, err
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()

	currency := reg.orchestrator.Snapshot().Currency
	var order *ordersdomain.Order
	outcome, err := reg.orchestrator.Dismiss(ctx, func(ctx context.Context, outcome domain.Outcome) error {
		if s.deps.Orders == nil {
			return errors.New("order finalizer not configured")
		}
		placed, err := s.deps.Orders.Finalize(ctx, ordersports.FinalizeInput{
			RegisterID:    registerID,
			Response:      outcome.Response,
			PaymentMethod: ordersdomain.PaymentMethodTerminal,
			Currency:      currency,
		})
		if err != nil {
			return err
		}
		order = placed
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	if !outcome.Success {
		s.unlockCart(ctx, registerID)
	}
	return &ports.DismissResult{Outcome: outcome, Order: order}, nil
}

// CheckoutSDK records the result of an on-device SDK payment. Only an approved
// success result produces an order; every other variant is reported back unchanged.
func (s *Service) CheckoutSDK(ctx context.Context, registerID string, result domain.SDKResult) (*ports.CheckoutResult, error) {
	reg, err := s.register(registerID)
	if err != nil {
		return nil, err
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if stage := reg.orchestrator.Snapshot().Stage; stage != domain.StageSelectDevice {
		return nil, mapError(fmt.Errorf("%w: device payment is %s", domain.ErrInvalidStage, stage))
	}

	switch result.Kind {
	case domain.SDKResultSuccess:
		return s.checkoutSuccess(ctx, registerID, result)
	case domain.SDKResultError, domain.SDKResultCancelled, domain.SDKResultMissingPermission:
		message := strings.TrimSpace(result.Message)
		if message == "" {
			message = string(result.Kind)
		}
		s.logInfo(ctx, "sdk payment not completed", slog.String("register_id", registerID), slog.String("kind", string(result.Kind)))
		return &ports.CheckoutResult{
			Kind:    result.Kind,
			Outcome: domain.Outcome{Kind: domain.OutcomeFailed, Error: message},
		}, nil
	default:
		return nil, mapError(domain.ErrUnknownSDKResult)
	}
}

func (s *Service) checkoutSuccess(ctx context.Context, registerID string, result domain.SDKResult) (*ports.CheckoutResult, error) {
	method, err := sdkPaymentMethod(result.PaymentMethod)
	if err != nil {
		return nil, mapError(err)
	}
	if strings.TrimSpace(result.EncodedResponse) == "" {
		return nil, mapError(domain.ErrMissingSDKResultBlob)
	}

	resp, err := nexo.DecodeBase64Response(result.EncodedResponse)
	if err != nil {
		s.logError(ctx, "sdk payment result could not be decoded", err, slog.String("register_id", registerID))
		return &ports.CheckoutResult{Kind: result.Kind, Outcome: domain.NewOutcome(nil, err)}, nil
	}
	outcome := domain.NewOutcome(resp, nil)
	if !outcome.Success {
		return &ports.CheckoutResult{Kind: result.Kind, Outcome: outcome}, nil
	}

	if s.deps.Orders == nil || s.deps.Currencies == nil {
		return nil, errors.New("payments service missing order finalizer or currency source")
	}
	currency, err := s.deps.Currencies.Currency(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.deps.Orders.Finalize(ctx, ordersports.FinalizeInput{
		RegisterID:    registerID,
		Response:      resp,
		PaymentMethod: method,
		Currency:      currency.Code,
	})
	if err != nil {
		return nil, err
	}
	return &ports.CheckoutResult{Kind: result.Kind, Outcome: outcome, Order: order}, nil
}

// AuthenticateSDK exchanges an SDK setup token for session material.
func (s *Service) AuthenticateSDK(ctx context.Context, setupToken string) (*domain.SDKSession, error) {
	setupToken = strings.TrimSpace(setupToken)
	if setupToken == "" {
		return nil, mapError(domain.ErrEmptySetupToken)
	}
	if s.deps.Gateway == nil {
		return nil, errors.New("terminal gateway not configured")
	}
	return s.deps.Gateway.AuthenticateSDK(ctx, setupToken)
}

func (s *Service) register(registerID string) (*register, error) {
	registerID = strings.TrimSpace(registerID)
	if registerID == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, errEmptyRegisterID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if reg, ok := s.registers[registerID]; ok {
		return reg, nil
	}
	opts := append([]OrchestratorOption{WithOrchestratorLogger(s.loggerFor(registerID))}, s.orchestratorOpts...)
	var (
		directory ports.DeviceDirectory
		aborter   ports.Aborter
	)
	if s.deps.Gateway != nil {
		directory = s.deps.Gateway
		aborter = s.deps.Gateway
	}
	reg := &register{orchestrator: NewOrchestrator(directory, s.deps.Executor, aborter, opts...)}
	s.registers[registerID] = reg
	return reg, nil
}

func (s *Service) unlockCart(ctx context.Context, registerID string) {
	if s.deps.Carts == nil {
		return
	}
	if _, err := s.deps.Carts.Unlock(ctx, registerID); err != nil {
		s.logError(ctx, "cart unlock failed", err, slog.String("register_id", registerID))
	}
}

func (s *Service) loggerFor(registerID string) *slog.Logger {
	if s.logger == nil {
		return nil
	}
	return s.logger.With(slog.String("register_id", registerID))
}

func sdkPaymentMethod(raw string) (string, error) {
	switch method := strings.TrimSpace(raw); method {
	case "":
		return ordersdomain.PaymentMethodTapToPay, nil
	case ordersdomain.PaymentMethodTapToPay, ordersdomain.PaymentMethodCardReader:
		return method, nil
	default:
		return "", domain.ErrUnsupportedSDKMethod
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

var _ ports.Service = (*Service)(nil)
