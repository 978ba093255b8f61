package invoices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoice-manager/invoice-manager/internal/shared"
)

func TestApplyStatusPaidSideEffects(t *testing.T) {
	today := shared.NewDate(2026, time.May, 10)
	inv := &Invoice{Status: StatusSent}

	require.True(t, ApplyStatus(inv, "paid", today))
	assert.Equal(t, StatusPaid, inv.Status)
	require.NotNil(t, inv.PaidDate)
	assert.True(t, inv.PaidDate.Equal(today))

	require.True(t, ApplyStatus(inv, "sent", today))
	assert.Equal(t, StatusSent, inv.Status)
	assert.Nil(t, inv.PaidDate)
}

func TestApplyStatusAnyToAny(t *testing.T) {
	today := shared.NewDate(2026, time.May, 10)
	for _, from := range Statuses {
		for _, to := range Statuses {
			inv := &Invoice{Status: from}
			require.True(t, ApplyStatus(inv, string(to), today), "%s -> %s", from, to)
			assert.Equal(t, to, inv.Status)
			assert.Equal(t, to == StatusPaid, inv.PaidDate != nil)
		}
	}
}

func TestApplyStatusUnknownLabel(t *testing.T) {
	paid := shared.NewDate(2026, time.April, 1)
	inv := &Invoice{Status: StatusPaid, PaidDate: &paid}

	assert.False(t, ApplyStatus(inv, "archived", shared.NewDate(2026, time.May, 10)))
	assert.Equal(t, StatusPaid, inv.Status)
	require.NotNil(t, inv.PaidDate)
	assert.True(t, inv.PaidDate.Equal(paid))
}

func TestIsOverdue(t *testing.T) {
	today := shared.NewDate(2026, time.June, 15)
	past := shared.NewDate(2026, time.June, 1)

	tests := []struct {
		status Status
		due    shared.Date
		want   bool
	}{
		{StatusSent, past, true},
		{StatusViewed, past, true},
		{StatusOverdue, past, true},
		{StatusDraft, past, false},
		{StatusPaid, past, false},
		{StatusCancelled, past, false},
		{StatusSent, today, false},
		{StatusSent, today.AddDays(3), false},
	}
	for _, tt := range tests {
		inv := Invoice{Status: tt.status, DueDate: tt.due}
		assert.Equal(t, tt.want, inv.IsOverdue(today), "%s due %s", tt.status, tt.due)
	}

	assert.Equal(t, 14, Invoice{Status: StatusSent, DueDate: past}.DaysOverdue(today))
	assert.Equal(t, 0, Invoice{Status: StatusPaid, DueDate: past}.DaysOverdue(today))
}

func TestIsOutstanding(t *testing.T) {
	assert.True(t, Invoice{Status: StatusSent}.IsOutstanding())
	assert.True(t, Invoice{Status: StatusViewed}.IsOutstanding())
	assert.True(t, Invoice{Status: StatusOverdue}.IsOutstanding())
	assert.False(t, Invoice{Status: StatusDraft}.IsOutstanding())
	assert.False(t, Invoice{Status: StatusPaid}.IsOutstanding())
	assert.False(t, Invoice{Status: StatusCancelled}.IsOutstanding())
}
