package store

import (
	"context"
	"sync"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// SnapshotStore is a thread-safe in-memory store for registry snapshots,
// keyed by stock code and date.
type SnapshotStore struct {
	mu    sync.RWMutex
	snaps map[string]map[domain.Date]domain.Snapshot // stock code → date → snapshot
}

// NewSnapshotStore creates an empty SnapshotStore.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snaps: make(map[string]map[domain.Date]domain.Snapshot),
	}
}

// Put stores a snapshot. A snapshot fetched with a smaller row limit never
// replaces one fetched with a larger limit.
func (s *SnapshotStore) Put(_ context.Context, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDate, ok := s.snaps[snap.StockCode]
	if !ok {
		byDate = make(map[domain.Date]domain.Snapshot)
		s.snaps[snap.StockCode] = byDate
	}
	if cur, ok := byDate[snap.Date]; ok && cur.Count > snap.Count {
		return nil
	}
	snap.Rows = cloneRows(snap.Rows)
	byDate[snap.Date] = snap
	return nil
}

// Get returns the snapshot for stockCode on date.
func (s *SnapshotStore) Get(_ context.Context, stockCode string, date domain.Date) (domain.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snaps[stockCode][date]
	if !ok {
		return domain.Snapshot{}, false, nil
	}
	// Return a copy to avoid callers mutating the stored rows.
	snap.Rows = cloneRows(snap.Rows)
	return snap, true, nil
}

// Len returns the number of stored snapshots.
func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, byDate := range s.snaps {
		n += len(byDate)
	}
	return n
}

func cloneRows(rows []domain.RawRow) []domain.RawRow {
	out := make([]domain.RawRow, len(rows))
	for i, row := range rows {
		cp := make(domain.RawRow, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}
