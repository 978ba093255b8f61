package invoices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextNumber(t *testing.T) {
	now := time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{name: "empty year starts at one", existing: nil, want: "INV-2026-001"},
		{name: "continues after highest", existing: []string{"INV-2026-001", "INV-2026-007", "INV-2026-003"}, want: "INV-2026-008"},
		{name: "other years ignored", existing: []string{"INV-2025-041"}, want: "INV-2026-001"},
		{name: "non numeric suffix skipped", existing: []string{"INV-2026-ABC", "INV-2026-002"}, want: "INV-2026-003"},
		{name: "only non numeric starts at one", existing: []string{"INV-2026-XYZ"}, want: "INV-2026-001"},
		{name: "grows past three digits", existing: []string{"INV-2026-999"}, want: "INV-2026-1000"},
		{name: "max int suffix skipped", existing: []string{"INV-2026-9223372036854775807", "INV-2026-004"}, want: "INV-2026-005"},
		{name: "overflowing suffix skipped", existing: []string{"INV-2026-99999999999999999999"}, want: "INV-2026-001"},
		{name: "manual longer suffix counts", existing: []string{"INV-2026-0042"}, want: "INV-2026-043"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextNumber(now, tt.existing))
		})
	}
}

func TestNumberPrefix(t *testing.T) {
	assert.Equal(t, "INV-2031-", NumberPrefix(2031))
}
