package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/efreitasn/ccasswatch/internal/config"
	"github.com/efreitasn/ccasswatch/internal/domain"
	"github.com/efreitasn/ccasswatch/internal/engine"
	"github.com/efreitasn/ccasswatch/internal/fetch"
	"github.com/efreitasn/ccasswatch/internal/publish"
	"github.com/efreitasn/ccasswatch/internal/service"
	"github.com/efreitasn/ccasswatch/internal/store"
)

// app holds the wired components shared by every subcommand.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	window     service.Window
	aggregator *engine.Aggregator
	holdingSvc *service.HoldingService
	stockSvc   *service.StockService
	closers    []io.Closer
}

// newLogger builds the JSON logger at the configured level.
func newLogger(w io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// newApp loads configuration and wires the registry client, snapshot cache,
// event publishers and services. Logs go to logOut.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(logOut, cfg.LogLevel)
	slog.SetDefault(logger)

	columns, err := config.LoadColumnMap(cfg.ColumnMapFile)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		window: service.Window{Now: time.Now, Location: cfg.Location},
	}

	client := fetch.NewCCASSClient(cfg.RegistryURL, cfg.StockListURL,
		fetch.WithTimeout(cfg.FetchTimeout),
		fetch.WithRetries(cfg.FetchRetries, cfg.FetchBackoff),
		fetch.WithLogger(logger),
	)

	var fetcher engine.SnapshotFetcher = client
	switch cfg.Cache {
	case config.CacheMemory:
		fetcher = fetch.NewCached(client, store.NewSnapshotStore(), logger)
	case config.CacheRedis:
		rs := store.NewRedisSnapshotStore(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}), cfg.CacheTTL)
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rs.Ping(pctx)
		cancel()
		if err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		a.closers = append(a.closers, rs)
		fetcher = fetch.NewCached(client, rs, logger)
	}

	var publishers publish.Multi
	if len(cfg.KafkaBrokers) > 0 {
		publishers = append(publishers, publish.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic))
	}
	if cfg.WebhookURL != "" {
		publishers = append(publishers, publish.NewWebhookPublisher(cfg.WebhookURL, cfg.WebhookTimeout))
	}
	var publisher service.EventPublisher
	if len(publishers) > 0 {
		publisher = publishers
		a.closers = append(a.closers, publishers)
	}

	a.aggregator = engine.NewAggregator(fetcher, engine.AggregatorConfig{
		Workers:      cfg.FetchWorkers,
		FetchTimeout: cfg.FetchTimeout,
		Columns:      columns,
	}, logger)
	a.holdingSvc = service.NewHoldingService(a.aggregator, publisher, a.window, logger)
	a.stockSvc = service.NewStockService(client, domain.NewStockDirectory(), a.window, logger)

	logger.Debug("app wired",
		slog.String("cache", cfg.Cache),
		slog.Int("publishers", len(publishers)),
		slog.String("timezone", cfg.Location.String()),
	)
	return a, nil
}

// close releases the cache and publisher connections.
func (a *app) close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
