package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	posserver "github.com/Apurer/go-gin-pos-server/go"

	terminalclient "github.com/Apurer/go-gin-pos-server/internal/clients/http/terminal"
	cartmemory "github.com/Apurer/go-gin-pos-server/internal/domains/cart/adapters/memory"
	cartredis "github.com/Apurer/go-gin-pos-server/internal/domains/cart/adapters/redis"
	cartapp "github.com/Apurer/go-gin-pos-server/internal/domains/cart/application"
	cartports "github.com/Apurer/go-gin-pos-server/internal/domains/cart/ports"
	menumemory "github.com/Apurer/go-gin-pos-server/internal/domains/menu/adapters/memory"
	menuobs "github.com/Apurer/go-gin-pos-server/internal/domains/menu/adapters/observability"
	menupostgres "github.com/Apurer/go-gin-pos-server/internal/domains/menu/adapters/persistence/postgres"
	menuapp "github.com/Apurer/go-gin-pos-server/internal/domains/menu/application"
	menuports "github.com/Apurer/go-gin-pos-server/internal/domains/menu/ports"
	ordersmemory "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/memory"
	ordersamqp "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/messaging/amqp"
	ordersobs "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/go-gin-pos-server/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	paymentsterminal "github.com/Apurer/go-gin-pos-server/internal/domains/payments/adapters/external/terminal"
	paymentsobs "github.com/Apurer/go-gin-pos-server/internal/domains/payments/adapters/observability"
	paymentsworkflows "github.com/Apurer/go-gin-pos-server/internal/domains/payments/adapters/workflows"
	paymentsapp "github.com/Apurer/go-gin-pos-server/internal/domains/payments/application"
	paymentsports "github.com/Apurer/go-gin-pos-server/internal/domains/payments/ports"
	settingsmemory "github.com/Apurer/go-gin-pos-server/internal/domains/settings/adapters/memory"
	settingspostgres "github.com/Apurer/go-gin-pos-server/internal/domains/settings/adapters/persistence/postgres"
	settingsapp "github.com/Apurer/go-gin-pos-server/internal/domains/settings/application"
	settingsports "github.com/Apurer/go-gin-pos-server/internal/domains/settings/ports"
	platformamqp "github.com/Apurer/go-gin-pos-server/internal/platform/amqp"
	"github.com/Apurer/go-gin-pos-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-pos-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-pos-server/internal/platform/postgres"
	platformredis "github.com/Apurer/go-gin-pos-server/internal/platform/redis"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

const serviceName = "pos-api"

// Run boots the POS HTTP API with observability, storage, messaging and payment workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer closeDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	cartStore, closeCarts := buildCartStore(ctx, cfg, logger)
	defer closeCarts()
	publisher, closePublisher := buildOrderPublisher(cfg, logger)
	defer closePublisher()

	menuService := menuobs.New(
		menuapp.NewService(buildMenuRepository(db)),
		menuobs.WithLogger(logger),
		menuobs.WithTracer(instruments.Tracer("internal.menu.application")),
		menuobs.WithMeter(instruments.Meter("internal.menu.application")),
	)
	cartService := cartapp.NewService(cartStore, menuService, cartapp.WithLogger(logger))
	settingsService := BuildSettingsService(db, logger)
	orderOptions := []ordersapp.Option{ordersapp.WithLogger(logger)}
	if publisher != nil {
		orderOptions = append(orderOptions, ordersapp.WithPublisher(publisher))
	}
	orderService := ordersobs.New(
		ordersapp.NewService(buildOrderRepository(db), cartStore, orderOptions...),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	gateway := NewTerminalGateway(cfg, settingsService)
	var executor paymentsports.PaymentExecutor = paymentsworkflows.NewInlinePaymentExecutor(gateway)
	if temporalClient, err := DialTemporal(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running device payments inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		executor = paymentsworkflows.NewTemporalPaymentExecutor(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}
	paymentService := paymentsobs.New(
		paymentsapp.NewService(paymentsapp.Dependencies{
			Gateway:    gateway,
			Executor:   executor,
			Carts:      cartService,
			Currencies: settingsService,
			Orders:     orderService,
		},
			paymentsapp.WithLogger(logger),
			paymentsapp.WithOrchestratorOptions(
				paymentsapp.WithOrchestratorLogger(logger),
				paymentsapp.WithTimeouts(paymentsapp.DefaultDiscoveryTimeout, cfg.PaymentTimeout()),
			),
		),
		paymentsobs.WithLogger(logger),
		paymentsobs.WithTracer(instruments.Tracer("internal.payments.application")),
		paymentsobs.WithMeter(instruments.Meter("internal.payments.application")),
	)

	handlers := posserver.ApiHandleFunctions{
		MenuAPI:     posserver.NewMenuAPI(menuService),
		CartAPI:     posserver.NewCartAPI(cartService),
		PaymentAPI:  posserver.NewPaymentAPI(paymentService),
		OrderAPI:    posserver.NewOrderAPI(orderService),
		SettingsAPI: posserver.NewSettingsAPI(settingsService),
	}

	router := newHTTPRouter(handlers)
	addr := ":" + cfg.Port
	logger.Info("POS API listening", slog.String("addr", addr), slog.String("sale_id", cfg.SaleID))
	if err := router.Run(addr); err != nil {
		logger.Error("POS API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// newHTTPRouter registers the tracing middleware ahead of the API routes.
func newHTTPRouter(handlers posserver.ApiHandleFunctions, opts ...otelgin.Option) *gin.Engine {
	return posserver.NewRouter(handlers, otelgin.Middleware(serviceName, opts...))
}

// NewTerminalGateway builds the cloud terminal gateway; credentials come from merchant settings per call.
func NewTerminalGateway(cfg Config, merchant paymentsterminal.MerchantSource) *paymentsterminal.Gateway {
	terminal := terminalclient.NewClient(
		terminalclient.WithSoftPOSBaseURL(cfg.SoftPOSBaseURL),
		terminalclient.WithDeviceAPIBaseURL(cfg.DeviceAPIBaseURL),
		terminalclient.WithTimeout(cfg.TerminalTimeout),
	)
	return paymentsterminal.NewGateway(terminal, merchant, nexo.NewEncoder(cfg.SaleID))
}

// BuildSettingsService returns a postgres-backed settings service, or an in-memory one when db is nil.
func BuildSettingsService(db *gorm.DB, logger *slog.Logger) *settingsapp.Service {
	var store settingsports.Store = settingsmemory.NewStore()
	if db != nil {
		store = settingspostgres.NewStore(db)
	}
	return settingsapp.NewService(store, settingsapp.WithLogger(logger))
}

// DialTemporal connects a traced Temporal client unless TEMPORAL_DISABLED is set.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func buildMenuRepository(db *gorm.DB) menuports.Repository {
	if db == nil {
		return menumemory.NewRepository()
	}
	return menupostgres.NewRepository(db)
}

func buildOrderRepository(db *gorm.DB) ordersports.Repository {
	if db == nil {
		return ordersmemory.NewRepository()
	}
	return orderspostgres.NewRepository(db)
}

func buildCartStore(ctx context.Context, cfg Config, logger *slog.Logger) (cartports.Store, func()) {
	rdb, cleanup := platformredis.ConnectOrFallback(ctx, cfg.RedisAddr, logger)
	if rdb == nil {
		return cartmemory.NewStore(), cleanup
	}
	return cartredis.NewStore(rdb), cleanup
}

func buildOrderPublisher(cfg Config, logger *slog.Logger) (*ordersamqp.Publisher, func()) {
	channel, cleanup := platformamqp.ConnectOrFallback(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if channel == nil {
		return nil, cleanup
	}
	return ordersamqp.NewPublisher(channel, cfg.AMQPExchange), cleanup
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
