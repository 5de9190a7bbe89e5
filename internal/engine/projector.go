package engine

import (
	"fmt"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// Project selects the rows of panel dated asOf, in panel order. A date
// outside the panel's range is ErrDateNotFound; a date inside the range with
// no published rows yields an empty projection.
func Project(panel *domain.Panel, asOf domain.Date) (domain.Projection, error) {
	if panel == nil || !panel.Covers(asOf) {
		return domain.Projection{}, fmt.Errorf("%w: %s", domain.ErrDateNotFound, asOf)
	}

	p := domain.Projection{
		Date:      asOf,
		StockCode: panel.StockCode,
		Names:     []string{},
		SharesPct: []float64{},
	}
	for _, rec := range panel.Records {
		if rec.Date != asOf {
			continue
		}
		p.Names = append(p.Names, rec.ParticipantName)
		p.SharesPct = append(p.SharesPct, rec.SharesPct)
	}
	return p, nil
}
