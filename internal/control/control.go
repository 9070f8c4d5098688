package control

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vietddude/faultcore/internal/boundary"
	"github.com/vietddude/faultcore/internal/core/config"
	"github.com/vietddude/faultcore/internal/core/domain"
	"github.com/vietddude/faultcore/internal/handler"
	"github.com/vietddude/faultcore/internal/infra/postgres"
	redisclient "github.com/vietddude/faultcore/internal/infra/redis"
	"github.com/vietddude/faultcore/internal/ledger"
	"github.com/vietddude/faultcore/internal/ops"
	"github.com/vietddude/faultcore/internal/recovery"
)

// App is the application root. It owns the fault-handling core and the infra
// clients the recovery strategies exercise, and hands them to request paths
// by reference instead of through ambient globals.
type App struct {
	cfg      config.AppConfig
	ledger   *ledger.Ledger
	registry *recovery.Registry
	handler  *handler.Handler
	adapter  *boundary.Adapter
	janitor  *ledger.Janitor
	ops      *ops.Server
	db       *postgres.DB
	redis    *redisclient.Client

	cancel context.CancelFunc
}

// New creates an App with all dependencies initialized. Infra-backed recovery
// strategies are registered only when their backend is configured.
func New(cfg config.AppConfig) (*App, error) {
	led := ledger.New(cfg.Ledger.MaxReports)
	registry := recovery.NewRegistry()
	h := handler.New(registry, led)

	app := &App{
		cfg:      cfg,
		ledger:   led,
		registry: registry,
		handler:  h,
		adapter:  boundary.NewAdapter(cfg.Environment),
		janitor:  ledger.NewJanitor(led, cfg.Ledger.Retention),
		ops:      ops.NewServer(led, cfg.Server.Port),
	}

	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		app.db = db
		h.AddStrategy(recovery.NewDatabaseStrategy(
			db, cfg.Recovery.Database.MaxRetries, cfg.Recovery.Database.RetryDelay))
	}

	if cfg.Redis.URL != "" {
		rc, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		app.redis = rc
		h.AddStrategy(recovery.NewCacheStrategy(
			rc, cfg.Recovery.Cache.MaxRetries, cfg.Recovery.Cache.RetryDelay))
		h.AddCallback(app.alertCallback(cfg.Ledger.AlertsOn))
	}

	h.AddStrategy(recovery.NewExternalServiceStrategy(
		cfg.Recovery.External.MaxRetries, cfg.Recovery.External.RetryDelay))

	return app, nil
}

// Handler returns the global fault handler.
func (a *App) Handler() *handler.Handler { return a.handler }

// Adapter returns the boundary adapter for this deployment environment.
func (a *App) Adapter() *boundary.Adapter { return a.adapter }

// Ledger returns the error ledger.
func (a *App) Ledger() *ledger.Ledger { return a.ledger }

// Start installs the fault handler and launches the ops server and the
// ledger janitor.
func (a *App) Start(ctx context.Context) error {
	a.handler.Install()

	ctx, a.cancel = context.WithCancel(ctx)

	a.handler.Go("ops-server", func() {
		if err := a.ops.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("Ops server stopped", "error", err)
		}
	})

	a.handler.Go("ledger-janitor", func() {
		a.janitor.Start(ctx)
	})

	slog.Info("faultcore started",
		"port", a.cfg.Server.Port,
		"environment", a.cfg.Environment,
		"retention", a.cfg.Ledger.Retention,
	)
	return nil
}

// Stop shuts everything down gracefully.
func (a *App) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.ops.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop ops server: %w", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("Failed to close redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Warn("Failed to close db", "error", err)
		}
	}

	slog.Info("faultcore stopped")
	return nil
}

// alertCallback publishes CRITICAL reports to the redis alert channel. Lower
// severities stay in the ledger and the logs.
func (a *App) alertCallback(channel string) handler.Callback {
	return func(report *domain.ErrorReport) {
		if report.Severity != domain.SeverityCritical {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.redis.PublishAlert(ctx, channel, report); err != nil {
			slog.Error("Failed to publish alert", "report_id", report.ID, "error", err)
		}
	}
}
