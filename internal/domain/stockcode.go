package domain

import (
	"strings"
	"sync"
)

// StockCodeLen is the width of a registry stock code.
const StockCodeLen = 5

// NormalizeStockCode validates a stock code and left-pads it with zeros to
// the registry's five digit form ("5" → "00005").
func NormalizeStockCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", &ValidationError{Message: "stock_code is required"}
	}
	if len(code) > StockCodeLen {
		return "", &ValidationError{Message: "stock_code must be at most 5 digits"}
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", &ValidationError{Message: "stock_code must be numeric"}
		}
	}
	return strings.Repeat("0", StockCodeLen-len(code)) + code, nil
}

// StockDirectory remembers the registry's stock list per date in a
// thread-safe manner. Published lists for a past date do not change.
type StockDirectory struct {
	mu     sync.RWMutex
	byDate map[Date][]Stock
}

// NewStockDirectory creates an empty StockDirectory.
func NewStockDirectory() *StockDirectory {
	return &StockDirectory{
		byDate: make(map[Date][]Stock),
	}
}

// Store records the stock list for date. Safe for concurrent use.
func (d *StockDirectory) Store(date Date, stocks []Stock) {
	cp := make([]Stock, len(stocks))
	copy(cp, stocks)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.byDate[date] = cp
}

// Lookup returns the stock list recorded for date. Safe for concurrent use.
func (d *StockDirectory) Lookup(date Date) ([]Stock, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stocks, ok := d.byDate[date]
	if !ok {
		return nil, false
	}
	cp := make([]Stock, len(stocks))
	copy(cp, stocks)
	return cp, true
}
