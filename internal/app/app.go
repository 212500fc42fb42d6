package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/ovalline/cricsync/external/cricfeed"
	"github.com/ovalline/cricsync/internal/config"
	"github.com/ovalline/cricsync/internal/infrastructure/repository/postgres"
	"github.com/ovalline/cricsync/internal/platform/cache"
	"github.com/ovalline/cricsync/internal/platform/logging"
	"github.com/ovalline/cricsync/internal/platform/resilience"
	"github.com/ovalline/cricsync/internal/usecase"
)

// App wires the feed client, repositories, and pipeline services for the
// command binaries.
type App struct {
	Sync      *usecase.SyncService
	Reconcile *usecase.ReconcileService
	Dedupe    *usecase.DedupeService

	db     *sqlx.DB
	logger *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dsn, err := injectServiceKey(cfg.DBURL, cfg.DBServiceKey)
	if err != nil {
		return nil, err
	}

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	feedClient := cricfeed.NewClient(cricfeed.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.FeedTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:    cfg.FeedBaseURL,
		ProxyURL:   cfg.FeedProxyURL,
		ClientID:   cfg.FeedClientID,
		Timeout:    cfg.FeedTimeout,
		MaxRetries: cfg.FeedMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
		},
	})

	matchRepo := postgres.NewMatchRepository(db)
	inningsRepo := postgres.NewInningsRepository(db)
	teamStatsRepo := postgres.NewTeamStatsRepository(db)

	return &App{
		Sync: usecase.NewSyncService(
			feedClient,
			matchRepo,
			inningsRepo,
			teamStatsRepo,
			cache.NewStore(cfg.CacheTTL),
			usecase.SyncConfig{
				LookbackDays:    cfg.SyncLookbackDays,
				RequestDelay:    cfg.SyncRequestDelay,
				BatchSize:       cfg.SyncBatchSize,
				CompletedStates: cfg.SyncCompletedStates,
			},
			logger,
		),
		Reconcile: usecase.NewReconcileService(feedClient, matchRepo, teamStatsRepo, cfg.SyncRequestDelay, logger),
		Dedupe:    usecase.NewDedupeService(matchRepo, inningsRepo, logger),
		db:        db,
		logger:    logger,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
