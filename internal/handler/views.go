package handler

import (
	"github.com/efreitasn/ccasswatch/internal/domain"
	"github.com/efreitasn/ccasswatch/internal/service"
)

// Column orders of the tabular responses.
var (
	holdingColumns = []string{
		"date", "participant_id", "participant_name", "address", "shares", "shares_pct",
	}
	plotColumns        = []string{"participant_name", "shares_pct"}
	transactionColumns = []string{
		"date",
		"buyer_id", "buyer_name", "buyer_shares", "buyer_shares_pct", "buyer_pct_change",
		"seller_id", "seller_name", "seller_shares", "seller_shares_pct", "seller_pct_change",
	}
)

// TableView is a column-oriented table.
type TableView struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// PlotView is the data for plotting one date's holdings.
type PlotView struct {
	Date      domain.Date `json:"date"`
	StockCode string      `json:"stock_code"`
	Columns   []string    `json:"columns"`
	Names     []string    `json:"names"`
	SharesPct []float64   `json:"shares_pct"`
}

// DetailView is the JSON body of a holdings detail response.
type DetailView struct {
	StockCode string      `json:"stock_code"`
	StartDate domain.Date `json:"start_date"`
	EndDate   domain.Date `json:"end_date"`
	Table     TableView   `json:"table"`
	Plot      PlotView    `json:"plot"`
}

// TransactionsView is the JSON body of a transactions response.
type TransactionsView struct {
	RequestID string      `json:"request_id"`
	StockCode string      `json:"stock_code"`
	StartDate domain.Date `json:"start_date"`
	EndDate   domain.Date `json:"end_date"`
	Threshold float64     `json:"threshold"`
	TableView
}

// stockView is a single stock list entry.
type stockView struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// StocksView is the JSON body of a stock list response.
type StocksView struct {
	Date   domain.Date `json:"date"`
	Stocks []stockView `json:"stocks"`
}

// NewDetailView shapes a detail result.
func NewDetailView(res *service.DetailResult) DetailView {
	rows := make([][]any, len(res.Records))
	for i, rec := range res.Records {
		rows[i] = []any{
			rec.Date, rec.ParticipantID, rec.ParticipantName, rec.Address, rec.Shares, rec.SharesPct,
		}
	}
	return DetailView{
		StockCode: res.StockCode,
		StartDate: res.Start,
		EndDate:   res.End,
		Table:     TableView{Columns: holdingColumns, Rows: rows},
		Plot: PlotView{
			Date:      res.Plot.Date,
			StockCode: res.Plot.StockCode,
			Columns:   plotColumns,
			Names:     res.Plot.Names,
			SharesPct: res.Plot.SharesPct,
		},
	}
}

// NewTransactionsView shapes a transactions result.
func NewTransactionsView(res *service.TransactionsResult) TransactionsView {
	rows := make([][]any, len(res.Transactions))
	for i, tx := range res.Transactions {
		rows[i] = []any{
			tx.Date,
			tx.BuyerID, tx.BuyerName, tx.BuyerShares, tx.BuyerSharesPct, tx.BuyerPctChange,
			tx.SellerID, tx.SellerName, tx.SellerShares, tx.SellerSharesPct, tx.SellerPctChange,
		}
	}
	return TransactionsView{
		RequestID: res.RequestID,
		StockCode: res.StockCode,
		StartDate: res.Start,
		EndDate:   res.End,
		Threshold: res.Threshold,
		TableView: TableView{Columns: transactionColumns, Rows: rows},
	}
}

// NewStocksView shapes a stock list.
func NewStocksView(date domain.Date, stocks []domain.Stock) StocksView {
	out := make([]stockView, len(stocks))
	for i, s := range stocks {
		out[i] = stockView{Code: s.Code, Name: s.Name}
	}
	return StocksView{Date: date, Stocks: out}
}
