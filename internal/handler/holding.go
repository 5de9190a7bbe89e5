package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/ccasswatch/internal/domain"
	"github.com/efreitasn/ccasswatch/internal/service"
)

// HoldingHandler handles HTTP requests for holdings, transactions and the
// stock list.
type HoldingHandler struct {
	holdingSvc *service.HoldingService
	stockSvc   *service.StockService
}

// NewHoldingHandler creates a new HoldingHandler.
func NewHoldingHandler(holdingSvc *service.HoldingService, stockSvc *service.StockService) *HoldingHandler {
	return &HoldingHandler{holdingSvc: holdingSvc, stockSvc: stockSvc}
}

// GetHoldings handles GET /stocks/{stock_code}/holdings.
func (h *HoldingHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, chi.URLParam(r, "stock_code"))
}

// PlotTrend handles GET /plot_trend, which takes the stock code as a query
// parameter.
func (h *HoldingHandler) PlotTrend(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, r.URL.Query().Get("stock_code"))
}

// GetTransactions handles GET /stocks/{stock_code}/transactions.
func (h *HoldingHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	h.transactions(w, r, chi.URLParam(r, "stock_code"))
}

// FindTransactions handles GET /find_transactions, which takes the stock
// code as a query parameter.
func (h *HoldingHandler) FindTransactions(w http.ResponseWriter, r *http.Request) {
	h.transactions(w, r, r.URL.Query().Get("stock_code"))
}

// ListStocks handles GET /stocks.
func (h *HoldingHandler) ListStocks(w http.ResponseWriter, r *http.Request) {
	date, stocks, err := h.stockSvc.List(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		mapHoldingError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, NewStocksView(date, stocks))
}

func (h *HoldingHandler) detail(w http.ResponseWriter, r *http.Request, stockCode string) {
	q := r.URL.Query()
	count, ok := queryInt(r, "count")
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "count must be a valid integer")
		return
	}

	res, err := h.holdingSvc.Detail(r.Context(), service.DetailRequest{
		StockCode: stockCode,
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Count:     count,
	})
	if err != nil {
		mapHoldingError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, NewDetailView(res))
}

func (h *HoldingHandler) transactions(w http.ResponseWriter, r *http.Request, stockCode string) {
	q := r.URL.Query()
	count, ok := queryInt(r, "count")
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "count must be a valid integer")
		return
	}
	threshold, ok := queryFloat(r, "threshold")
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "threshold must be a number")
		return
	}

	res, err := h.holdingSvc.Transactions(r.Context(), service.TransactionsRequest{
		RequestID: RequestIDFrom(r.Context()),
		StockCode: stockCode,
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Threshold: threshold,
		Count:     count,
	})
	if err != nil {
		mapHoldingError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, NewTransactionsView(res))
}

// mapHoldingError maps service errors to HTTP error responses.
func mapHoldingError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		WriteError(w, http.StatusBadRequest, "invalid_range", err.Error())
	case errors.Is(err, domain.ErrInvalidThreshold):
		WriteError(w, http.StatusBadRequest, "invalid_threshold", err.Error())
	case errors.Is(err, domain.ErrDateOutOfRange):
		WriteError(w, http.StatusBadRequest, "date_out_of_range", err.Error())
	case errors.Is(err, domain.ErrDateNotFound):
		WriteError(w, http.StatusNotFound, "date_not_found", err.Error())
	case errors.Is(err, domain.ErrSchemaMismatch):
		WriteError(w, http.StatusBadGateway, "schema_mismatch", err.Error())
	case errors.Is(err, domain.ErrFetch):
		WriteError(w, http.StatusBadGateway, "fetch_error", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
