package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailingMonthsEndOfMonthDoesNotDrift(t *testing.T) {
	months := TrailingMonths(time.Date(2026, time.March, 31, 23, 0, 0, 0, time.UTC), 6)
	require.Len(t, months, 6)

	var got []string
	for _, m := range months {
		got = append(got, m.Start.String()+".."+m.End.String())
	}
	assert.Equal(t, []string{
		"2025-10-01..2025-10-31",
		"2025-11-01..2025-11-30",
		"2025-12-01..2025-12-31",
		"2026-01-01..2026-01-31",
		"2026-02-01..2026-02-28",
		"2026-03-01..2026-03-31",
	}, got)
}

func TestMonthContainsBounds(t *testing.T) {
	feb := MonthOf(time.Date(2028, time.February, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2028-02-29", feb.End.String())
	assert.True(t, feb.Contains(d(2028, 2, 1)))
	assert.True(t, feb.Contains(d(2028, 2, 29)))
	assert.False(t, feb.Contains(d(2028, 3, 1)))
	assert.False(t, feb.Contains(d(2028, 1, 31)))
	assert.Equal(t, "Feb", feb.Label())
}

func TestLoadSince(t *testing.T) {
	assert.Equal(t, "2025-10-01", LoadSince(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)).String())
	assert.Equal(t, "2026-01-01", LoadSince(time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)).String())
}
