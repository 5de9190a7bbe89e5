package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/efreitasn/ccasswatch/internal/domain"
	"github.com/efreitasn/ccasswatch/internal/engine"
)

// Row count defaults and limit.
const (
	DefaultDetailCount       = 10
	DefaultTransactionsCount = 20
	MaxCount                 = 500
)

// EventPublisher publishes transaction events. Publishing is best effort.
type EventPublisher interface {
	PublishTransactions(ctx context.Context, event domain.TransactionsEvent) error
}

// DetailRequest holds the raw parameters of a holdings detail query.
type DetailRequest struct {
	StockCode string
	StartDate string
	EndDate   string
	Count     *int // nil for the default
}

// DetailResult is the panel for the requested range plus a projection of
// its last date.
type DetailResult struct {
	StockCode string
	Start     domain.Date
	End       domain.Date
	Records   []domain.HoldingRecord
	Plot      domain.Projection
}

// TransactionsRequest holds the raw parameters of a transactions query.
type TransactionsRequest struct {
	RequestID string // generated when empty
	StockCode string
	StartDate string
	EndDate   string
	Threshold *float64 // required
	Count     *int     // nil for the default
}

// TransactionsResult lists the candidate transactions found. Start is the
// first date actually fetched, which is the day before the requested start
// when a single date was requested.
type TransactionsResult struct {
	RequestID    string
	StockCode    string
	Start        domain.Date
	End          domain.Date
	Threshold    float64
	Transactions []domain.TransactionRow
}

// HoldingService answers holdings and transactions queries.
type HoldingService struct {
	aggregator *engine.Aggregator
	publisher  EventPublisher
	window     Window
	logger     *slog.Logger
}

// NewHoldingService creates a new HoldingService. publisher may be nil.
func NewHoldingService(
	aggregator *engine.Aggregator,
	publisher EventPublisher,
	window Window,
	logger *slog.Logger,
) *HoldingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HoldingService{
		aggregator: aggregator,
		publisher:  publisher,
		window:     window,
		logger:     logger,
	}
}

// Detail returns the holdings of the top participants for every date in
// the requested range, and the last date's holdings for plotting.
func (s *HoldingService) Detail(ctx context.Context, req DetailRequest) (*DetailResult, error) {
	code, err := domain.NormalizeStockCode(req.StockCode)
	if err != nil {
		return nil, err
	}
	start, end, err := s.parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	count, err := resolveCount(req.Count, DefaultDetailCount)
	if err != nil {
		return nil, err
	}
	if err := s.window.check(start, end); err != nil {
		return nil, err
	}

	panel, err := s.aggregator.BuildPanel(ctx, code, start, end, count)
	if err != nil {
		return nil, err
	}
	plot, err := engine.Project(panel, end)
	if err != nil {
		return nil, err
	}

	return &DetailResult{
		StockCode: code,
		Start:     start,
		End:       end,
		Records:   panel.Records,
		Plot:      plot,
	}, nil
}

// Transactions infers candidate transactions over the requested range.
// A single-date request is widened to start one day earlier, so that the
// date has a prior day to compare against.
func (s *HoldingService) Transactions(ctx context.Context, req TransactionsRequest) (*TransactionsResult, error) {
	code, err := domain.NormalizeStockCode(req.StockCode)
	if err != nil {
		return nil, err
	}
	start, end, err := s.parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if req.Threshold == nil {
		return nil, &domain.ValidationError{Message: "threshold is required"}
	}
	threshold := *req.Threshold
	if err := engine.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	count, err := resolveCount(req.Count, DefaultTransactionsCount)
	if err != nil {
		return nil, err
	}

	if start == end {
		start = start.AddDays(-1)
	}
	if err := s.window.check(start, end); err != nil {
		return nil, err
	}

	panel, err := s.aggregator.BuildPanel(ctx, code, start, end, count)
	if err != nil {
		return nil, err
	}
	txs, err := engine.InferTransactions(panel, threshold)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.TransactionRow, len(txs))
	for i, tx := range txs {
		rows[i] = tx.Row()
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	res := &TransactionsResult{
		RequestID:    requestID,
		StockCode:    code,
		Start:        start,
		End:          end,
		Threshold:    threshold,
		Transactions: rows,
	}

	s.logger.Info("transactions inferred",
		slog.String("request_id", requestID),
		slog.String("stock_code", code),
		slog.String("start", start.String()),
		slog.String("end", end.String()),
		slog.Float64("threshold", threshold),
		slog.Int("transactions", len(rows)),
	)
	s.publish(ctx, res)
	return res, nil
}

// publish announces a transactions result. Failures are logged and do not
// fail the query.
func (s *HoldingService) publish(ctx context.Context, res *TransactionsResult) {
	if s.publisher == nil {
		return
	}
	event := domain.TransactionsEvent{
		EventType:    domain.EventTransactionsInferred,
		RequestID:    res.RequestID,
		StockCode:    res.StockCode,
		StartDate:    res.Start,
		EndDate:      res.End,
		Threshold:    res.Threshold,
		Transactions: res.Transactions,
		Timestamp:    s.window.now().UTC(),
	}
	if err := s.publisher.PublishTransactions(ctx, event); err != nil {
		s.logger.Warn("publish transactions failed",
			slog.String("request_id", res.RequestID),
			slog.String("stock_code", res.StockCode),
			slog.String("error", err.Error()),
		)
	}
}

func (s *HoldingService) parseRange(startParam, endParam string) (domain.Date, domain.Date, error) {
	start, err := parseDateParam("start_date", startParam)
	if err != nil {
		return domain.Date{}, domain.Date{}, err
	}
	end, err := parseDateParam("end_date", endParam)
	if err != nil {
		return domain.Date{}, domain.Date{}, err
	}
	if start.After(end) {
		return domain.Date{}, domain.Date{}, &domain.RangeError{Start: start, End: end}
	}
	return start, end, nil
}
