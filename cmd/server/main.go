package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cmoyo/payouts/infra"
	eventrepo "github.com/cmoyo/payouts/infra/repository/event"
	payoutrepo "github.com/cmoyo/payouts/infra/repository/payout"
	stripegw "github.com/cmoyo/payouts/infra/stripe"
	"github.com/cmoyo/payouts/pkg/config"
	payoutsvc "github.com/cmoyo/payouts/pkg/service/payout"
	"github.com/cmoyo/payouts/webapi"
	"github.com/charmbracelet/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	logger := infra.SetupLogger(&cfg.Log)

	db, err := infra.NewDBConnection(&cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := infra.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	gateway := stripegw.New(&cfg.Stripe)
	payouts := payoutrepo.New(db)
	events := eventrepo.New(db)
	svc := payoutsvc.New(gateway, payouts, logger)

	if cfg.Sync.Interval > 0 {
		go runPeriodicSync(context.Background(), svc, cfg.Sync.Interval)
		logger.Info("periodic payout sync enabled", "interval", cfg.Sync.Interval)
	}

	app := webapi.NewApp(webapi.Deps{
		PayoutService: svc,
		Events:        events,
		Webhook:       gateway,
		Logger:        logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server",
		"env", cfg.Env,
		"address", addr,
	)

	return app.Listen(addr)
}

// runPeriodicSync runs a full bulk sync on every tick. Failures are logged
// and the next tick retries from scratch.
func runPeriodicSync(ctx context.Context, svc *payoutsvc.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.SyncAll(ctx); err != nil {
				log.Error("periodic payout sync failed", "error", err)
			}
		}
	}
}
