package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoice-manager/invoice-manager/internal/invoices"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

var (
	hundred  = decimal.NewFromInt(100)
	maxFloor = decimal.NewFromInt(100)
)

// Build computes the dashboard for now from an owner's snapshot. It does not
// touch the store and is deterministic for a given input.
func Build(now time.Time, snap Snapshot) Dashboard {
	today := shared.DateOf(now)
	month := MonthOf(now)
	yearStart := StartOfYear(now)

	d := Dashboard{
		AsOf:               today,
		TotalInvoicedMonth: decimal.Zero,
		TotalPaidMonth:     decimal.Zero,
		TotalOutstanding:   decimal.Zero,
		StatusCounts:       make(map[string]int, len(invoices.Statuses)),
		TotalClients:       snap.ClientCount,
		RevenueYTD:         decimal.Zero,
		ExpensesYTD:        decimal.Zero,
		RecentInvoices:     []InvoiceRow{},
		OverdueInvoices:    []OverdueInvoice{},
	}
	for _, s := range invoices.Statuses {
		d.StatusCounts[string(s)] = 0
	}

	for _, row := range snap.Invoices {
		inv := row.invoice()
		d.StatusCounts[row.Status]++

		if !row.IssueDate.Before(month.Start) {
			d.TotalInvoicedMonth = d.TotalInvoicedMonth.Add(row.Total)
			d.InvoiceCountMonth++
			if inv.Status == invoices.StatusPaid {
				d.TotalPaidMonth = d.TotalPaidMonth.Add(row.Total)
			}
		}
		if inv.IsOutstanding() {
			d.TotalOutstanding = d.TotalOutstanding.Add(row.Total)
		}
		if inv.Status == invoices.StatusPaid && !row.IssueDate.Before(yearStart) {
			d.RevenueYTD = d.RevenueYTD.Add(row.Total)
		}
		if inv.IsOverdue(today) {
			d.OverdueInvoices = append(d.OverdueInvoices, OverdueInvoice{InvoiceRow: row, DaysOverdue: inv.DaysOverdue(today)})
		}
	}

	for _, e := range snap.Expenses {
		if !e.Date.Before(yearStart) {
			d.ExpensesYTD = d.ExpensesYTD.Add(e.Amount)
		}
	}

	sort.SliceStable(d.OverdueInvoices, func(i, j int) bool {
		return d.OverdueInvoices[i].DueDate.Before(d.OverdueInvoices[j].DueDate)
	})

	d.RecentInvoices = recent(snap.Invoices, RecentLimit)
	d.ChartData = trend(now, snap)
	return d
}

func (row InvoiceRow) invoice() invoices.Invoice {
	return invoices.Invoice{
		ID:        row.ID,
		Status:    invoices.Status(row.Status),
		IssueDate: row.IssueDate,
		DueDate:   row.DueDate,
		PaidDate:  row.PaidDate,
		Total:     row.Total,
	}
}

func recent(rows []InvoiceRow, limit int) []InvoiceRow {
	sorted := make([]InvoiceRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func trend(now time.Time, snap Snapshot) []ChartPoint {
	months := TrailingMonths(now, TrendMonths)
	points := make([]ChartPoint, len(months))
	for i, m := range months {
		points[i] = ChartPoint{Month: m.Label(), Start: m.Start, End: m.End, Revenue: decimal.Zero, Expenses: decimal.Zero}
	}

	for _, row := range snap.Invoices {
		if row.Status != string(invoices.StatusPaid) || row.PaidDate == nil {
			continue
		}
		for i, m := range months {
			if m.Contains(*row.PaidDate) {
				points[i].Revenue = points[i].Revenue.Add(row.Total)
				break
			}
		}
	}
	for _, e := range snap.Expenses {
		for i, m := range months {
			if m.Contains(e.Date) {
				points[i].Expenses = points[i].Expenses.Add(e.Amount)
				break
			}
		}
	}

	peak := decimal.Zero
	for _, p := range points {
		peak = decimal.Max(peak, p.Revenue, p.Expenses)
	}
	if peak.IsZero() {
		peak = maxFloor
	}
	for i := range points {
		points[i].RevenuePct = percentOf(points[i].Revenue, peak)
		points[i].ExpensesPct = percentOf(points[i].Expenses, peak)
	}
	return points
}

func percentOf(value, peak decimal.Decimal) decimal.Decimal {
	return value.Mul(hundred).Div(peak).Round(2)
}
