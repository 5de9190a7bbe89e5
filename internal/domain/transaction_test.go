package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCandidateTransaction_Row(t *testing.T) {
	d := MustParseDate("20220104")
	tx := CandidateTransaction{
		Date: d,
		Buy: HoldingDelta{
			Record:    HoldingRecord{Date: d, ParticipantID: "P1", ParticipantName: "Buyer", Shares: decimal.NewFromInt(595), SharesPct: 5.95},
			PctChange: 5.95 - 5.00,
		},
		Sell: HoldingDelta{
			Record:    HoldingRecord{Date: d, ParticipantID: "P2", ParticipantName: "Seller", Shares: decimal.NewFromInt(910), SharesPct: 9.10},
			PctChange: 9.10 - 10.00,
		},
	}

	row := tx.Row()
	if row.Date != d {
		t.Errorf("Date = %v, want %v", row.Date, d)
	}
	if row.BuyerID != "P1" || row.SellerID != "P2" {
		t.Errorf("ids = %s/%s, want P1/P2", row.BuyerID, row.SellerID)
	}
	if row.BuyerPctChange != 0.95 {
		t.Errorf("BuyerPctChange = %v, want 0.95", row.BuyerPctChange)
	}
	if row.SellerPctChange != -0.9 {
		t.Errorf("SellerPctChange = %v, want -0.9", row.SellerPctChange)
	}
	if !row.SellerShares.Equal(decimal.NewFromInt(910)) {
		t.Errorf("SellerShares = %s, want 910", row.SellerShares)
	}
}
