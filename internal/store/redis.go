package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

const snapshotKeyPrefix = "ccass:snapshot"

// RedisSnapshotStore keeps snapshots in Redis as JSON values, so that
// several instances share one cache and it survives restarts.
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotStore wraps an existing client. A zero ttl stores entries
// without expiry.
func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

// snapshotKey returns the Redis key of a stock's snapshot on a date.
func snapshotKey(stockCode string, date domain.Date) string {
	return fmt.Sprintf("%s:%s:%s", snapshotKeyPrefix, stockCode, date)
}

// Get returns the snapshot for stockCode on date.
func (s *RedisSnapshotStore) Get(ctx context.Context, stockCode string, date domain.Date) (domain.Snapshot, bool, error) {
	data, err := s.client.Get(ctx, snapshotKey(stockCode, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("redis get: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

// Put stores a snapshot, replacing any previous one for the same key.
func (s *RedisSnapshotStore) Put(ctx context.Context, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(snap.StockCode, snap.Date), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisSnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisSnapshotStore) Close() error {
	return s.client.Close()
}
