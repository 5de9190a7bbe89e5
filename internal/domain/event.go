package domain

import "time"

// EventTransactionsInferred is the event type published after a
// transactions query.
const EventTransactionsInferred = "TRANSACTIONS_INFERRED"

// TransactionsEvent announces the candidate transactions found for a
// stock over a date window.
type TransactionsEvent struct {
	EventType    string           `json:"event_type"`
	RequestID    string           `json:"request_id"`
	StockCode    string           `json:"stock_code"`
	StartDate    Date             `json:"start_date"`
	EndDate      Date             `json:"end_date"`
	Threshold    float64          `json:"threshold"`
	Transactions []TransactionRow `json:"transactions"`
	Timestamp    time.Time        `json:"timestamp"`
}
