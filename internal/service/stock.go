package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// StockLister returns the registry's stock list for a date.
type StockLister interface {
	StockList(ctx context.Context, date domain.Date) ([]domain.Stock, error)
}

// StockService answers stock list queries, remembering each date's list.
type StockService struct {
	lister    StockLister
	directory *domain.StockDirectory
	window    Window
	logger    *slog.Logger
}

// NewStockService creates a new StockService. directory may be nil.
func NewStockService(lister StockLister, directory *domain.StockDirectory, window Window, logger *slog.Logger) *StockService {
	if directory == nil {
		directory = domain.NewStockDirectory()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StockService{
		lister:    lister,
		directory: directory,
		window:    window,
		logger:    logger,
	}
}

// List returns the stocks with holdings on date, given as YYYYMMDD. An
// empty date means yesterday, the latest date the registry serves.
func (s *StockService) List(ctx context.Context, date string) (domain.Date, []domain.Stock, error) {
	var d domain.Date
	if date == "" {
		d = s.window.today().AddDays(-1)
	} else {
		var err error
		if d, err = parseDateParam("date", date); err != nil {
			return domain.Date{}, nil, err
		}
	}
	if err := s.window.check(d); err != nil {
		return domain.Date{}, nil, err
	}

	if stocks, ok := s.directory.Lookup(d); ok {
		return d, stocks, nil
	}

	stocks, err := s.lister.StockList(ctx, d)
	if err != nil {
		return domain.Date{}, nil, fmt.Errorf("%w: stock list on %s: %v", domain.ErrFetch, d, err)
	}
	s.directory.Store(d, stocks)
	s.logger.Info("stock list loaded",
		slog.String("date", d.String()),
		slog.Int("stocks", len(stocks)),
	)
	return d, stocks, nil
}
