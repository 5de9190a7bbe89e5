package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

const (
	labelID   = "Participant ID"
	labelName = "Name of CCASS Participant\n(* for Consenting Investor Participants )"
	labelQty  = "Shareholding"
	labelPct  = "% of the total number of Issued Shares/ Warrants/ Units"
)

var errRegistryDown = errors.New("registry down")

// fakeFetcher serves rows from a map keyed by date and records every call.
type fakeFetcher struct {
	mu    sync.Mutex
	rows  map[domain.Date][]domain.RawRow
	fail  map[domain.Date]error
	calls []domain.Date
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		rows: make(map[domain.Date][]domain.RawRow),
		fail: make(map[domain.Date]error),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, _ string, date domain.Date, count int) ([]domain.RawRow, error) {
	f.mu.Lock()
	f.calls = append(f.calls, date)
	rows, err := f.rows[date], f.fail[date]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if len(rows) > count {
		rows = rows[:count]
	}
	return rows, nil
}

func (f *fakeFetcher) add(date string, id string, pct float64) {
	d := domain.MustParseDate(date)
	f.rows[d] = append(f.rows[d], holdingRow(id, pct))
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func holdingRow(id string, pct float64) domain.RawRow {
	return domain.RawRow{
		labelID:   id,
		labelName: "Participant " + id,
		labelQty:  "1,000",
		labelPct:  strconv.FormatFloat(pct, 'f', 2, 64) + "%",
	}
}

func record(date, id string, pct float64) domain.HoldingRecord {
	return domain.HoldingRecord{
		Date:            domain.MustParseDate(date),
		ParticipantID:   id,
		ParticipantName: "Participant " + id,
		SharesPct:       pct,
	}
}

// panelOf builds a panel spanning start..end from the given records.
func panelOf(start, end string, recs ...domain.HoldingRecord) *domain.Panel {
	return &domain.Panel{
		StockCode: "00001",
		Dates:     domain.DatesBetween(domain.MustParseDate(start), domain.MustParseDate(end)),
		Records:   recs,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func txKey(tx domain.CandidateTransaction) string {
	return fmt.Sprintf("%s %s->%s", tx.Date, tx.Buy.ParticipantID(), tx.Sell.ParticipantID())
}
