package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePercent converts a registry percentage such as "5.95%" into
// percentage points (5.95). The trailing "%" is optional.
func ParsePercent(s string) (float64, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
	v = strings.ReplaceAll(v, ",", "")
	if v == "" {
		return 0, fmt.Errorf("empty percentage")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid percentage %q", s)
	}
	return f, nil
}

// ParseShares converts a registry share count such as "1,234,567" into a
// decimal. Fractional counts are kept as published.
func ParseShares(s string) (decimal.Decimal, error) {
	v := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if v == "" {
		return decimal.Zero, fmt.Errorf("empty share count")
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid share count %q", s)
	}
	return d, nil
}

// Round2 rounds f to two decimal places, ties to even on the scaled value.
func Round2(f float64) float64 {
	return math.RoundToEven(f*100) / 100
}
