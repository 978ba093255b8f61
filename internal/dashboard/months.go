package dashboard

import (
	"time"

	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Month is a calendar month with inclusive first and last days.
type Month struct {
	Start shared.Date
	End   shared.Date
}

// Contains reports whether d falls within the month.
func (m Month) Contains(d shared.Date) bool {
	return !d.Before(m.Start) && !d.After(m.End)
}

// Label returns the short month name, e.g. "Jan".
func (m Month) Label() string {
	return m.Start.Format("Jan")
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return Month{Start: shared.DateOf(start), End: shared.DateOf(end)}
}

// TrailingMonths returns n calendar months ending with the month of now,
// oldest first.
func TrailingMonths(now time.Time, n int) []Month {
	if n <= 0 {
		return nil
	}
	months := make([]Month, 0, n)
	for k := n - 1; k >= 0; k-- {
		months = append(months, MonthOf(time.Date(now.Year(), now.Month()-time.Month(k), 1, 0, 0, 0, 0, time.UTC)))
	}
	return months
}

// StartOfYear returns January 1st of now's year.
func StartOfYear(now time.Time) shared.Date {
	return shared.NewDate(now.Year(), time.January, 1)
}

// LoadSince is the earliest expense date Build can look at for now.
func LoadSince(now time.Time) shared.Date {
	ytd := StartOfYear(now)
	trend := TrailingMonths(now, TrendMonths)[0].Start
	if trend.Before(ytd) {
		return trend
	}
	return ytd
}
