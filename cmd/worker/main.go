package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-pos-server/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-pos-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-pos-server/internal/platform/postgres"
	paymentactivities "github.com/Apurer/go-gin-pos-server/internal/platform/temporal/activities/payments"
	paymentworkflows "github.com/Apurer/go-gin-pos-server/internal/platform/temporal/workflows/payments"
)

func main() {
	ctx := context.Background()
	const serviceName = "pos-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	// Merchant credentials live in settings, so the worker reads the same database as the API.
	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer closeDB()
	if db == nil {
		logger.Warn("worker has no merchant settings store; payments will fail until POSTGRES_DSN is set")
	}
	settingsService := api.BuildSettingsService(db, logger)
	activities := paymentactivities.NewActivities(api.NewTerminalGateway(cfg, settingsService))

	cfg.TemporalDisabled = false
	temporalClient, err := api.DialTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, paymentworkflows.DevicePaymentTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(paymentworkflows.DevicePaymentWorkflow, workflow.RegisterOptions{Name: paymentworkflows.DevicePaymentWorkflowName})
	w.RegisterActivityWithOptions(activities.SendDevicePayment, activity.RegisterOptions{Name: paymentactivities.SendDevicePaymentActivityName})

	logger.Info("worker listening", slog.String("taskQueue", paymentworkflows.DevicePaymentTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
