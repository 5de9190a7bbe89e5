package service

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/efreitasn/ccasswatch/internal/domain"
	"github.com/efreitasn/ccasswatch/internal/engine"
	"github.com/efreitasn/ccasswatch/internal/fetch"
)

var hongKong = time.FixedZone("HKT", 8*60*60)

// testWindow makes 2022-05-09 "today": dates 20210509..20220508 are valid.
var testWindow = Window{
	Now:      func() time.Time { return time.Date(2022, 5, 9, 10, 0, 0, 0, hongKong) },
	Location: hongKong,
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ccassRow(id string, pct float64) domain.RawRow {
	return domain.RawRow{
		"Participant ID": id,
		"Name of CCASS Participant\n(* for Consenting Investor Participants )": "Participant " + id,
		"Address":      "1 Queen's Road",
		"Shareholding": "1,000",
		"% of the total number of Issued Shares/ Warrants/ Units": strconv.FormatFloat(pct, 'f', 2, 64) + "%",
	}
}

// scenarioRegistry holds P1 5.00% → 5.95% and P2 10.00% → 9.10% between
// 20220103 and 20220104 for stock 00005.
func scenarioRegistry() *fetch.Memory {
	mem := fetch.NewMemory()
	mem.Put("00005", domain.MustParseDate("20220103"), []domain.RawRow{ccassRow("P2", 10.00), ccassRow("P1", 5.00)})
	mem.Put("00005", domain.MustParseDate("20220104"), []domain.RawRow{ccassRow("P2", 9.10), ccassRow("P1", 5.95)})
	return mem
}

func newTestAggregator(f engine.SnapshotFetcher) *engine.Aggregator {
	return engine.NewAggregator(f, engine.AggregatorConfig{Workers: 2, FetchTimeout: time.Second}, discardLogger())
}

func newTestHoldingService(f engine.SnapshotFetcher, pub EventPublisher) *HoldingService {
	return NewHoldingService(newTestAggregator(f), pub, testWindow, discardLogger())
}

// recordingPublisher records published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.TransactionsEvent
	err    error
}

func (p *recordingPublisher) PublishTransactions(_ context.Context, e domain.TransactionsEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) published() []domain.TransactionsEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.TransactionsEvent, len(p.events))
	copy(out, p.events)
	return out
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
