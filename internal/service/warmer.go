package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/efreitasn/ccasswatch/internal/domain"
	"github.com/efreitasn/ccasswatch/internal/engine"
)

// WarmerConfig configures the snapshot cache warm-up job.
type WarmerConfig struct {
	Stocks  []string      // stock codes to warm
	At      string        // daily run time, "HH:MM" in the window's location
	Count   int           // rows per snapshot (default 20)
	Timeout time.Duration // per-run timeout (default 10m)
}

// Warmer fetches the latest published snapshot of a fixed set of stocks
// once a day, so that the snapshot cache already holds it when queried.
type Warmer struct {
	aggregator *engine.Aggregator
	cfg        WarmerConfig
	window     Window
	scheduler  *gocron.Scheduler
	logger     *slog.Logger
}

// NewWarmer creates a Warmer. It does nothing until Start is called.
func NewWarmer(aggregator *engine.Aggregator, cfg WarmerConfig, window Window, logger *slog.Logger) *Warmer {
	if cfg.Count < 1 {
		cfg.Count = DefaultTransactionsCount
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	loc := window.Location
	if loc == nil {
		loc = time.UTC
	}
	scheduler := gocron.NewScheduler(loc)
	scheduler.SingletonModeAll()

	return &Warmer{
		aggregator: aggregator,
		cfg:        cfg,
		window:     window,
		scheduler:  scheduler,
		logger:     logger,
	}
}

// Start schedules the daily run and starts the scheduler in the
// background. It stops when ctx is cancelled or Stop is called.
func (w *Warmer) Start(ctx context.Context) error {
	if len(w.cfg.Stocks) == 0 {
		return nil
	}
	_, err := w.scheduler.Every(1).Day().At(w.cfg.At).Do(func() {
		rctx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
		w.runOnce(rctx)
	})
	if err != nil {
		return fmt.Errorf("schedule warm-up at %q: %w", w.cfg.At, err)
	}
	w.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	w.logger.Info("warm-up scheduled",
		slog.String("at", w.cfg.At),
		slog.Int("stocks", len(w.cfg.Stocks)),
	)
	return nil
}

// Stop stops the scheduler. Safe to call more than once.
func (w *Warmer) Stop() {
	if w.scheduler.IsRunning() {
		w.scheduler.Stop()
	}
}

// runOnce warms yesterday's snapshot of every configured stock. Failures
// are logged per stock and do not stop the run. It returns the number of
// stocks warmed.
func (w *Warmer) runOnce(ctx context.Context) int {
	date := w.window.today().AddDays(-1)
	warmed := 0
	for _, raw := range w.cfg.Stocks {
		if ctx.Err() != nil {
			break
		}
		code, err := domain.NormalizeStockCode(raw)
		if err != nil {
			w.logger.Warn("warm-up skipped stock",
				slog.String("stock_code", raw),
				slog.String("error", err.Error()),
			)
			continue
		}
		if _, err := w.aggregator.BuildPanel(ctx, code, date, date, w.cfg.Count); err != nil {
			w.logger.Warn("warm-up failed",
				slog.String("stock_code", code),
				slog.String("date", date.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		warmed++
	}
	w.logger.Info("warm-up finished",
		slog.String("date", date.String()),
		slog.Int("warmed", warmed),
		slog.Int("stocks", len(w.cfg.Stocks)),
	)
	return warmed
}
