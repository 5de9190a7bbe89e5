package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// SnapshotFetcher returns the top count participant rows published by the
// registry for a stock on a date. Implementations may return fewer rows
// than count, and zero rows for days the registry has nothing for.
type SnapshotFetcher interface {
	Fetch(ctx context.Context, stockCode string, date domain.Date, count int) ([]domain.RawRow, error)
}

// AggregatorConfig tunes panel construction.
type AggregatorConfig struct {
	Workers      int              // concurrent fetches per panel (default 4)
	FetchTimeout time.Duration    // per-date fetch timeout (default 30s)
	Columns      domain.ColumnMap // registry label → field (default CCASS headers)
}

// DefaultAggregatorConfig returns sensible defaults.
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		Workers:      4,
		FetchTimeout: 30 * time.Second,
		Columns:      domain.DefaultColumnMap(),
	}
}

// Aggregator builds panels by fetching one snapshot per calendar date.
type Aggregator struct {
	fetcher SnapshotFetcher
	cfg     AggregatorConfig
	logger  *slog.Logger
}

// NewAggregator creates an Aggregator. Zero config fields take their defaults.
func NewAggregator(fetcher SnapshotFetcher, cfg AggregatorConfig, logger *slog.Logger) *Aggregator {
	def := DefaultAggregatorConfig()
	if cfg.Workers < 1 {
		cfg.Workers = def.Workers
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = def.FetchTimeout
	}
	if cfg.Columns.IsZero() {
		cfg.Columns = def.Columns
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// BuildPanel fetches every calendar date in [start, end] and assembles the
// results in date order. Dates are fetched concurrently up to the configured
// worker count; the first failing date cancels the rest and fails the whole
// build, since a panel with a missing date would yield wrong deltas.
func (a *Aggregator) BuildPanel(ctx context.Context, stockCode string, start, end domain.Date, count int) (*domain.Panel, error) {
	if start.After(end) {
		return nil, &domain.RangeError{Start: start, End: end}
	}
	if count < 1 {
		return nil, &domain.ValidationError{Message: "count must be a positive integer"}
	}

	began := time.Now()
	dates := domain.DatesBetween(start, end)
	perDate := make([][]domain.HoldingRecord, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, date := range dates {
		i, date := i, date
		g.Go(func() error {
			recs, err := a.fetchDate(gctx, stockCode, date, count)
			if err != nil {
				return err
			}
			perDate[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.logger.Warn("panel build failed",
			slog.String("stock_code", stockCode),
			slog.String("start", start.String()),
			slog.String("end", end.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	panel := &domain.Panel{
		StockCode: stockCode,
		Dates:     dates,
	}
	for _, recs := range perDate {
		panel.Records = append(panel.Records, recs...)
	}

	a.logger.Info("panel built",
		slog.String("stock_code", stockCode),
		slog.String("start", start.String()),
		slog.String("end", end.String()),
		slog.Int("dates", len(dates)),
		slog.Int("records", len(panel.Records)),
		slog.Duration("duration", time.Since(began)),
	)
	return panel, nil
}

// fetchDate fetches and normalizes a single date's rows.
func (a *Aggregator) fetchDate(ctx context.Context, stockCode string, date domain.Date, count int) ([]domain.HoldingRecord, error) {
	fctx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
	defer cancel()

	rows, err := a.fetcher.Fetch(fctx, stockCode, date, count)
	if err != nil {
		return nil, &domain.FetchError{StockCode: stockCode, Date: date, Err: err}
	}
	if len(rows) > count {
		rows = rows[:count]
	}

	recs := make([]domain.HoldingRecord, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		rec, err := a.cfg.Columns.Record(date, row)
		if err != nil {
			return nil, fmt.Errorf("%s on %s: %w", stockCode, date, err)
		}
		if seen[rec.ParticipantID] {
			return nil, fmt.Errorf("%s on %s: %w", stockCode, date, &domain.SchemaMismatchError{
				Label:  domain.FieldParticipantID,
				Value:  rec.ParticipantID,
				Reason: "duplicate participant",
			})
		}
		seen[rec.ParticipantID] = true
		recs = append(recs, rec)
	}

	a.logger.Debug("snapshot fetched",
		slog.String("stock_code", stockCode),
		slog.String("date", date.String()),
		slog.Int("rows", len(recs)),
	)
	return recs, nil
}
