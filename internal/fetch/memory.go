package fetch

import (
	"context"
	"sync"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// Memory serves snapshots and stock lists from memory. It stands in for the
// registry in tests and offline runs.
type Memory struct {
	mu     sync.RWMutex
	rows   map[string]map[domain.Date][]domain.RawRow // stock code → date → rows
	stocks []domain.Stock
	errs   map[domain.Date]error
	calls  int
}

// NewMemory creates an empty Memory fetcher.
func NewMemory() *Memory {
	return &Memory{
		rows: make(map[string]map[domain.Date][]domain.RawRow),
		errs: make(map[domain.Date]error),
	}
}

// Put sets the rows returned for stockCode on date.
func (m *Memory) Put(stockCode string, date domain.Date, rows []domain.RawRow) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byDate, ok := m.rows[stockCode]
	if !ok {
		byDate = make(map[domain.Date][]domain.RawRow)
		m.rows[stockCode] = byDate
	}
	byDate[date] = rows
}

// FailOn makes every fetch for date return err.
func (m *Memory) FailOn(date domain.Date, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[date] = err
}

// SetStocks sets the stock list.
func (m *Memory) SetStocks(stocks []domain.Stock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stocks = stocks
}

// Calls returns the number of Fetch calls served.
func (m *Memory) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// Fetch returns at most count rows for stockCode on date. Unknown stocks
// and dates yield no rows.
func (m *Memory) Fetch(ctx context.Context, stockCode string, date domain.Date, count int) ([]domain.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if err := m.errs[date]; err != nil {
		return nil, err
	}
	rows := m.rows[stockCode][date]
	if len(rows) > count {
		rows = rows[:count]
	}
	out := make([]domain.RawRow, len(rows))
	copy(out, rows)
	return out, nil
}

// StockList returns the configured stock list.
func (m *Memory) StockList(ctx context.Context, _ domain.Date) ([]domain.Stock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Stock, len(m.stocks))
	copy(out, m.stocks)
	return out, nil
}
