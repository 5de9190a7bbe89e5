package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// Fetcher is the snapshot source the cache sits in front of.
type Fetcher interface {
	Fetch(ctx context.Context, stockCode string, date domain.Date, count int) ([]domain.RawRow, error)
}

// SnapshotCache stores fetched snapshots. Get reports a miss with
// ok == false and a nil error.
type SnapshotCache interface {
	Get(ctx context.Context, stockCode string, date domain.Date) (snap domain.Snapshot, ok bool, err error)
	Put(ctx context.Context, snap domain.Snapshot) error
}

// Cached serves snapshots from a cache, falling back to the wrapped fetcher
// on a miss. Published holdings for a past date do not change, so a cached
// snapshot stays valid as long as it was fetched with a large enough row
// limit. Empty snapshots are not cached: the registry may not have
// published the date yet.
type Cached struct {
	next   Fetcher
	cache  SnapshotCache
	logger *slog.Logger
	now    func() time.Time
}

// NewCached wraps next with cache.
func NewCached(next Fetcher, cache SnapshotCache, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{
		next:   next,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// Fetch implements the snapshot fetcher contract.
func (c *Cached) Fetch(ctx context.Context, stockCode string, date domain.Date, count int) ([]domain.RawRow, error) {
	snap, ok, err := c.cache.Get(ctx, stockCode, date)
	if err != nil {
		// A broken cache must not fail the request.
		c.logger.Warn("snapshot cache get failed",
			slog.String("stock_code", stockCode),
			slog.String("date", date.String()),
			slog.String("error", err.Error()),
		)
	}
	if ok && snap.Serves(count) {
		return snap.Top(count), nil
	}

	rows, err := c.next.Fetch(ctx, stockCode, date, count)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}

	snap = domain.Snapshot{
		StockCode: stockCode,
		Date:      date,
		Count:     count,
		Rows:      rows,
		FetchedAt: c.now().UTC(),
	}
	if err := c.cache.Put(ctx, snap); err != nil {
		c.logger.Warn("snapshot cache put failed",
			slog.String("stock_code", stockCode),
			slog.String("date", date.String()),
			slog.String("error", err.Error()),
		)
	}
	return rows, nil
}
