package engine

import (
	"math"
	"sort"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// ComputeDeltas returns, for every participant, the change in shares_pct
// between each of its records and the participant's previous record in the
// panel. A participant's first record has no prior and yields no delta, as
// does a participant seen on a single date only. Deltas are grouped by
// participant in order of first appearance, then by date.
func ComputeDeltas(panel *domain.Panel) []domain.HoldingDelta {
	if panel == nil || len(panel.Records) == 0 {
		return nil
	}

	var order []string
	groups := make(map[string][]domain.HoldingRecord)
	for _, rec := range panel.Records {
		if _, ok := groups[rec.ParticipantID]; !ok {
			order = append(order, rec.ParticipantID)
		}
		groups[rec.ParticipantID] = append(groups[rec.ParticipantID], rec)
	}

	var deltas []domain.HoldingDelta
	for _, id := range order {
		recs := groups[id]
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].Date.Before(recs[j].Date)
		})
		for i := 1; i < len(recs); i++ {
			deltas = append(deltas, domain.HoldingDelta{
				Record:    recs[i],
				PctChange: recs[i].SharesPct - recs[i-1].SharesPct,
			})
		}
	}
	return deltas
}

// InferTransactions pairs same-date increases and decreases in shares_pct
// into candidate transfers.
//
// Only deltas whose magnitude is strictly greater than threshold are
// considered. Every buy is paired with every sell on the same date whose
// magnitude ratio (smaller over larger) is at least domain.MinPairRatio, so
// one participant may appear in several candidates. Pairing is quadratic in
// the number of significant deltas per date.
//
// Output is ordered by date, then buy pct_change ascending, then buy
// participant id; sells for one buy run from the largest decrease to the
// smallest. The result is never nil.
func InferTransactions(panel *domain.Panel, threshold float64) ([]domain.CandidateTransaction, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	book := newDeltaBook()
	for _, d := range ComputeDeltas(panel) {
		if math.Abs(d.PctChange) > threshold {
			book.Insert(d)
		}
	}

	txs := []domain.CandidateTransaction{}
	book.WalkBuys(func(buy domain.HoldingDelta) bool {
		book.WalkSellsOn(buy.Date(), func(sell domain.HoldingDelta) bool {
			if pairRatio(buy.PctChange, sell.PctChange) >= domain.MinPairRatio {
				txs = append(txs, domain.CandidateTransaction{
					Date: buy.Date(),
					Buy:  buy,
					Sell: sell,
				})
			}
			return true
		})
		return true
	})
	return txs, nil
}

// ValidateThreshold rejects negative, NaN and infinite thresholds.
func ValidateThreshold(threshold float64) error {
	if threshold < 0 || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return &domain.ThresholdError{Threshold: threshold}
	}
	return nil
}

// pairRatio returns min/max of the two magnitudes.
func pairRatio(buy, sell float64) float64 {
	b, s := math.Abs(buy), math.Abs(sell)
	lo, hi := math.Min(b, s), math.Max(b, s)
	if hi == 0 {
		return 0
	}
	return lo / hi
}
