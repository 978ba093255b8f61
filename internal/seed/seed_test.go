package seed

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoice-manager/invoice-manager/internal/invoices"
	"github.com/invoice-manager/invoice-manager/internal/money"
)

func TestDemoDatasetShape(t *testing.T) {
	data := Demo()
	assert.Len(t, data.Clients, 6)
	assert.Len(t, data.Invoices, 8)
	assert.Len(t, data.Expenses, 10)
	assert.Len(t, data.Insights, 2)

	for _, inv := range data.Invoices {
		require.Less(t, inv.ClientIndex, len(data.Clients), inv.Number)
		assert.False(t, inv.DueDate.Before(inv.IssueDate), inv.Number)
		assert.Equal(t, inv.Status == invoices.StatusPaid, inv.PaidDate != nil, inv.Number)
	}
	for _, e := range data.Expenses {
		assert.True(t, e.Category.Valid(), e.Description)
		assert.True(t, e.Amount.IsPositive(), e.Description)
	}
}

func TestDemoInvoiceTotals(t *testing.T) {
	want := map[string][2]string{
		"INV-2026-001": {"12500", "13750"},
		"INV-2026-002": {"8500", "9350"},
		"INV-2026-003": {"15000", "15000"},
		"INV-2026-004": {"22000", "26400"},
		"INV-2026-005": {"7500", "9375"},
		"INV-2026-006": {"18000", "19440"},
		"INV-2026-007": {"5000", "5500"},
		"INV-2026-008": {"15000", "15000"},
	}
	for _, inv := range Demo().Invoices {
		totals := inv.Totals()
		assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString(want[inv.Number][0])), "%s subtotal %s", inv.Number, totals.Subtotal)
		assert.True(t, totals.Total.Equal(decimal.RequireFromString(want[inv.Number][1])), "%s total %s", inv.Number, totals.Total)
		assert.Len(t, totals.Lines, len(inv.Lines))
	}
}

func TestDemoExpenseTotal(t *testing.T) {
	amounts := make([]decimal.Decimal, 0)
	for _, e := range Demo().Expenses {
		amounts = append(amounts, e.Amount)
	}
	assert.Equal(t, "3140.5", money.Sum(amounts...).String())
}

func TestAssignNumbersKeepsFreeNumbers(t *testing.T) {
	invs := Demo().Invoices[:3]
	assert.Equal(t, []string{"INV-2026-001", "INV-2026-002", "INV-2026-003"}, AssignNumbers(invs, nil))
}

func TestAssignNumbersSkipsTakenNumbers(t *testing.T) {
	invs := Demo().Invoices[:3]
	got := AssignNumbers(invs, []string{"INV-2026-001", "INV-2026-002", "INV-2026-003", "INV-2025-050"})
	assert.Equal(t, []string{"INV-2026-004", "INV-2026-005", "INV-2026-006"}, got)
}

func TestAssignNumbersMixesKeptAndAllocated(t *testing.T) {
	invs := Demo().Invoices[:3]
	got := AssignNumbers(invs, []string{"INV-2026-002"})
	assert.Equal(t, []string{"INV-2026-001", "INV-2026-003", "INV-2026-004"}, got)
}
