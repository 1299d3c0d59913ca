package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/Apurer/go-gin-pos-server/internal/app/api"
	platformpostgres "github.com/Apurer/go-gin-pos-server/internal/platform/postgres"
)

func main() {
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.TerminalTimeout)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; merchant settings unavailable")
	}

	gateway := api.NewTerminalGateway(cfg, api.BuildSettingsService(db, logger))
	devices, err := gateway.ListDevices(ctx)
	if err != nil {
		log.Fatalf("failed to list devices: %v", err)
	}
	if len(devices) == 0 {
		log.Printf("no connected terminals")
		return
	}
	for _, id := range devices {
		fmt.Println(id)
	}
}
