package engine

import (
	"math"

	"github.com/google/btree"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// deltaLess orders deltas by date ascending, then pct_change ascending, then
// participant id ascending. (date, participant id) is unique within a panel,
// so no two deltas compare equal.
func deltaLess(a, b domain.HoldingDelta) bool {
	ad, bd := a.Date(), b.Date()
	if ad != bd {
		return ad.Before(bd)
	}
	if a.PctChange != b.PctChange {
		return a.PctChange < b.PctChange
	}
	return a.ParticipantID() < b.ParticipantID()
}

// deltaBook holds the significant deltas of a panel split into buys
// (increases) and sells (decreases), each kept sorted by deltaLess.
type deltaBook struct {
	buys  *btree.BTreeG[domain.HoldingDelta]
	sells *btree.BTreeG[domain.HoldingDelta]
}

func newDeltaBook() *deltaBook {
	const degree = 16
	return &deltaBook{
		buys:  btree.NewG[domain.HoldingDelta](degree, deltaLess),
		sells: btree.NewG[domain.HoldingDelta](degree, deltaLess),
	}
}

// Insert files a delta on the buy or sell side. A zero change is neither
// and is dropped.
func (b *deltaBook) Insert(d domain.HoldingDelta) {
	switch {
	case d.PctChange > 0:
		b.buys.ReplaceOrInsert(d)
	case d.PctChange < 0:
		b.sells.ReplaceOrInsert(d)
	}
}

// BuyCount returns the number of buy deltas.
func (b *deltaBook) BuyCount() int { return b.buys.Len() }

// SellCount returns the number of sell deltas.
func (b *deltaBook) SellCount() int { return b.sells.Len() }

// WalkBuys iterates buys in order. The callback returns false to stop.
func (b *deltaBook) WalkBuys(fn func(domain.HoldingDelta) bool) {
	b.buys.Ascend(fn)
}

// WalkSellsOn iterates the sells dated date in order (largest decrease
// first). The callback returns false to stop.
func (b *deltaBook) WalkSellsOn(date domain.Date, fn func(domain.HoldingDelta) bool) {
	pivot := domain.HoldingDelta{
		Record:    domain.HoldingRecord{Date: date},
		PctChange: math.Inf(-1),
	}
	b.sells.AscendGreaterOrEqual(pivot, func(d domain.HoldingDelta) bool {
		if d.Date() != date {
			return false
		}
		return fn(d)
	})
}
