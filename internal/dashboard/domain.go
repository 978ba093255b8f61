// Package dashboard computes an owner's financial overview.
package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// RecentLimit caps the recent invoices list.
const RecentLimit = 10

// TrendMonths is the number of calendar months in the chart series.
const TrendMonths = 6

// InvoiceRow is the slice of an invoice the aggregation needs.
type InvoiceRow struct {
	ID         int64           `json:"id"`
	Number     string          `json:"invoice_number"`
	ClientID   int64           `json:"client_id"`
	ClientName string          `json:"client_name"`
	Status     string          `json:"status"`
	IssueDate  shared.Date     `json:"issue_date"`
	DueDate    shared.Date     `json:"due_date"`
	PaidDate   *shared.Date    `json:"paid_date"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ExpenseRow is the slice of an expense the aggregation needs.
type ExpenseRow struct {
	Amount decimal.Decimal
	Date   shared.Date
}

// Snapshot is everything Build reads for one owner.
type Snapshot struct {
	Invoices    []InvoiceRow
	Expenses    []ExpenseRow
	ClientCount int
}

// OverdueInvoice is an invoice past due together with how late it is.
type OverdueInvoice struct {
	InvoiceRow
	DaysOverdue int `json:"days_overdue"`
}

// ChartPoint is one calendar month of the revenue/expense trend.
type ChartPoint struct {
	Month       string          `json:"month"`
	Start       shared.Date     `json:"start"`
	End         shared.Date     `json:"end"`
	Revenue     decimal.Decimal `json:"revenue"`
	Expenses    decimal.Decimal `json:"expenses"`
	RevenuePct  decimal.Decimal `json:"revenue_pct"`
	ExpensesPct decimal.Decimal `json:"expenses_pct"`
}

// Dashboard is the full aggregation payload.
type Dashboard struct {
	AsOf               shared.Date      `json:"as_of"`
	TotalInvoicedMonth decimal.Decimal  `json:"total_invoiced_month"`
	TotalPaidMonth     decimal.Decimal  `json:"total_paid_month"`
	TotalOutstanding   decimal.Decimal  `json:"total_outstanding"`
	StatusCounts       map[string]int   `json:"status_counts"`
	RecentInvoices     []InvoiceRow     `json:"recent_invoices"`
	TotalClients       int              `json:"total_clients"`
	InvoiceCountMonth  int              `json:"invoice_count_month"`
	RevenueYTD         decimal.Decimal  `json:"revenue_ytd"`
	ExpensesYTD        decimal.Decimal  `json:"expenses_ytd"`
	OverdueInvoices    []OverdueInvoice `json:"overdue_invoices"`
	ChartData          []ChartPoint     `json:"chart_data"`
}
