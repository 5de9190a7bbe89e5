package domain

import "github.com/shopspring/decimal"

// MinPairRatio is the smallest accepted ratio between the smaller and the
// larger magnitude of a buy/sell pair.
const MinPairRatio = 0.30

// HoldingDelta is a participant's change in shares_pct against the
// participant's previous record in the panel.
type HoldingDelta struct {
	Record    HoldingRecord
	PctChange float64
}

// Date returns the date of the record the delta ends on.
func (d HoldingDelta) Date() Date { return d.Record.Date }

// ParticipantID returns the participant the delta belongs to.
func (d HoldingDelta) ParticipantID() string { return d.Record.ParticipantID }

// CandidateTransaction pairs a same-date buy delta with a sell delta whose
// magnitudes are proportional enough to plausibly be one transfer.
type CandidateTransaction struct {
	Date Date
	Buy  HoldingDelta
	Sell HoldingDelta
}

// TransactionRow is a candidate transaction flattened for output, with the
// changes rounded to two decimals.
type TransactionRow struct {
	Date            Date            `json:"date"`
	BuyerID         string          `json:"buyer_id"`
	BuyerName       string          `json:"buyer_name"`
	BuyerShares     decimal.Decimal `json:"buyer_shares"`
	BuyerSharesPct  float64         `json:"buyer_shares_pct"`
	BuyerPctChange  float64         `json:"buyer_pct_change"`
	SellerID        string          `json:"seller_id"`
	SellerName      string          `json:"seller_name"`
	SellerShares    decimal.Decimal `json:"seller_shares"`
	SellerSharesPct float64         `json:"seller_shares_pct"`
	SellerPctChange float64         `json:"seller_pct_change"`
}

// Row flattens the transaction.
func (tx CandidateTransaction) Row() TransactionRow {
	return TransactionRow{
		Date:            tx.Date,
		BuyerID:         tx.Buy.Record.ParticipantID,
		BuyerName:       tx.Buy.Record.ParticipantName,
		BuyerShares:     tx.Buy.Record.Shares,
		BuyerSharesPct:  tx.Buy.Record.SharesPct,
		BuyerPctChange:  Round2(tx.Buy.PctChange),
		SellerID:        tx.Sell.Record.ParticipantID,
		SellerName:      tx.Sell.Record.ParticipantName,
		SellerShares:    tx.Sell.Record.Shares,
		SellerSharesPct: tx.Sell.Record.SharesPct,
		SellerPctChange: Round2(tx.Sell.PctChange),
	}
}
