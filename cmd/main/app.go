package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/tyche/internal/config"
	"github.com/UnknownOlympus/tyche/internal/lib/logger/sl"
	"github.com/UnknownOlympus/tyche/internal/metrics"
	"github.com/UnknownOlympus/tyche/internal/repository"
	"github.com/UnknownOlympus/tyche/internal/services/staff"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// application owns the store for the lifetime of one command.
type application struct {
	cfg     *config.Config
	log     *slog.Logger
	reg     *prometheus.Registry
	metrics *metrics.Metrics
	staff   *staff.Staff
	pool    *pgxpool.Pool
	now     func() time.Time
}

func newApplication(ctx context.Context, path string) (*application, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)

	a := &application{cfg: cfg, log: logger, reg: reg, metrics: appMetrics, now: time.Now}

	var repo repository.EmployeeRepoIface
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		a.pool, err = repository.NewDatabase(ctx,
			cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		repo = repository.NewPostgresRepository(a.pool, appMetrics)
	default:
		repo, err = repository.OpenFile(cfg.Storage.Path, appMetrics)
		if err != nil {
			return nil, fmt.Errorf("failed to open employee store: %w", err)
		}
	}

	logger.DebugContext(ctx, "Employee store ready", "driver", cfg.Storage.Driver)
	a.staff = staff.NewStaff(logger, repo, appMetrics)

	return a, nil
}

// Close writes the metrics textfile and releases the database pool.
func (a *application) Close() {
	if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile, a.reg); err != nil {
		a.log.Warn("Failed to export metrics", sl.Err(err))
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
