package service

import (
	"time"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// Clock returns the current time.
type Clock func() time.Time

// Window is the span of dates the registry serves: from one year before
// today up to yesterday, with "today" taken in Location. Zero fields mean
// time.Now and UTC.
type Window struct {
	Now      Clock
	Location *time.Location
}

func (w Window) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

func (w Window) today() domain.Date {
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	return domain.DateOf(w.now().In(loc))
}

// check returns a *domain.DateOutOfRangeError for the first date outside
// the window.
func (w Window) check(dates ...domain.Date) error {
	today := w.today()
	cutoff := today.YearEarlier()
	for _, d := range dates {
		if d.Before(cutoff) || !d.Before(today) {
			return &domain.DateOutOfRangeError{Date: d, Cutoff: cutoff, Today: today}
		}
	}
	return nil
}

// parseDateParam parses a YYYYMMDD request parameter.
func parseDateParam(name, value string) (domain.Date, error) {
	if value == "" {
		return domain.Date{}, &domain.ValidationError{Message: name + " is required"}
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return domain.Date{}, &domain.ValidationError{Message: name + " must be a date in YYYYMMDD format"}
	}
	return d, nil
}

// resolveCount applies the default and bounds to an optional row count.
func resolveCount(count *int, def int) (int, error) {
	if count == nil {
		return def, nil
	}
	if *count < 1 || *count > MaxCount {
		return 0, &domain.ValidationError{Message: "count must be between 1 and 500"}
	}
	return *count, nil
}
