package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one participant row as published by the registry, keyed by the
// registry's column label.
type RawRow map[string]string

// HoldingRecord is one participant's disclosed holding on one date.
type HoldingRecord struct {
	Date            Date
	ParticipantID   string
	ParticipantName string
	Address         string
	Shares          decimal.Decimal
	SharesPct       float64 // percentage points, "5.95%" → 5.95
}

// Panel is the holding dataset for one stock over an inclusive date range.
// Dates lists every calendar day of the range, including days for which the
// registry published no rows. Records are ordered by date, then by the
// registry's row order. A Panel is not modified after it is built.
type Panel struct {
	StockCode string
	Dates     []Date
	Records   []HoldingRecord
}

// Start returns the first date of the panel, or the zero Date if empty.
func (p *Panel) Start() Date {
	if len(p.Dates) == 0 {
		return Date{}
	}
	return p.Dates[0]
}

// End returns the last date of the panel, or the zero Date if empty.
func (p *Panel) End() Date {
	if len(p.Dates) == 0 {
		return Date{}
	}
	return p.Dates[len(p.Dates)-1]
}

// Covers reports whether d is one of the panel's dates.
func (p *Panel) Covers(d Date) bool {
	if len(p.Dates) == 0 {
		return false
	}
	return !d.Before(p.Start()) && !d.After(p.End())
}

// Projection is a single-date slice of a panel used for plotting.
type Projection struct {
	Date      Date
	StockCode string
	Names     []string
	SharesPct []float64
}

// Stock is an entry of the registry's stock list.
type Stock struct {
	Code string
	Name string
}

// Snapshot is what the registry returned for one stock on one date when
// asked for at most Count rows.
type Snapshot struct {
	StockCode string    `json:"stock_code"`
	Date      Date      `json:"date"`
	Count     int       `json:"count"`
	Rows      []RawRow  `json:"rows"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Serves reports whether the snapshot holds the answer to a request for
// count rows: either it was fetched with a limit at least as large, or the
// registry had fewer rows than the limit and so returned all of them.
func (s Snapshot) Serves(count int) bool {
	return s.Count >= count || len(s.Rows) < s.Count
}

// Top returns at most count rows.
func (s Snapshot) Top(count int) []RawRow {
	if count < len(s.Rows) {
		return s.Rows[:count]
	}
	return s.Rows
}
