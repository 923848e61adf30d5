package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/emiliopalmerini/pricepaid/internal/adapters/otel"
	"github.com/emiliopalmerini/pricepaid/internal/adapters/turso"
	"github.com/emiliopalmerini/pricepaid/internal/analytics"
	"github.com/emiliopalmerini/pricepaid/internal/config"
	"github.com/emiliopalmerini/pricepaid/internal/logging"
	"github.com/emiliopalmerini/pricepaid/internal/migrate"
	"github.com/emiliopalmerini/pricepaid/internal/ports"
)

const telemetryShutdownTimeout = 5 * time.Second

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config         *config.Config
	Logger         *slog.Logger
	DB             *turso.DB
	PredictionRepo ports.PredictionRepository
	Telemetry      ports.Telemetry
	Analytics      *analytics.Service
}

// NewAppContext wires the analytics service. With history set it also opens
// and migrates the prediction history store; a store that cannot be opened
// is logged and the app runs without one.
func NewAppContext(ctx context.Context, cfg *config.Config, logger *slog.Logger, history bool) (*AppContext, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &AppContext{Config: cfg, Logger: logger}

	if history {
		db, err := openHistory(ctx, cfg)
		if err != nil {
			logger.Warn("prediction history disabled", logging.Err(err))
		} else {
			app.DB = db
			app.PredictionRepo = turso.NewPredictionRepository(db.DB)
		}
	}

	tel, err := otel.New(ctx, cfg.OTelConfig())
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	app.Telemetry = tel

	app.Analytics = analytics.NewService(cfg.Layout(), cfg.EvalOptions(), app.PredictionRepo, logger)
	logger.Debug("artifacts resolved", "base_dir", cfg.Artifacts.BaseDir)
	return app, nil
}

func openHistory(ctx context.Context, cfg *config.Config) (*turso.DB, error) {
	db, err := turso.NewDB(ctx, cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return nil, err
	}
	if err := migrate.RunAll(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return db, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	var errs []error
	if a.Telemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		if err := a.Telemetry.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
