package store

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

func TestSnapshotKey(t *testing.T) {
	got := snapshotKey("00005", domain.MustParseDate("20220104"))
	if got != "ccass:snapshot:00005:20220104" {
		t.Errorf("snapshotKey = %q", got)
	}
}

func TestRedisSnapshotStore_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	s := NewRedisSnapshotStore(client, time.Hour)
	defer s.Close()

	ctx := context.Background()
	_, ok, err := s.Get(ctx, "00005", domain.MustParseDate("20220104"))
	if err == nil {
		t.Fatal("expected error from unreachable server")
	}
	if ok {
		t.Error("expected miss on error")
	}
	if err := s.Put(ctx, domain.Snapshot{StockCode: "00005"}); err == nil {
		t.Error("expected Put error from unreachable server")
	}
}
