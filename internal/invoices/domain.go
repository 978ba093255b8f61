package invoices

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Status enumerates invoice statuses.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusViewed    Status = "viewed"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every valid status label in lifecycle order.
var Statuses = []Status{StatusDraft, StatusSent, StatusViewed, StatusPaid, StatusOverdue, StatusCancelled}

// OutstandingStatuses are the statuses whose totals count as money owed.
var OutstandingStatuses = []Status{StatusSent, StatusViewed, StatusOverdue}

// Invoice model.
type Invoice struct {
	ID         int64           `json:"id"`
	ClientID   int64           `json:"client_id"`
	ClientName string          `json:"client_name,omitempty"`
	Number     string          `json:"invoice_number"`
	Status     Status          `json:"status"`
	IssueDate  shared.Date     `json:"issue_date"`
	DueDate    shared.Date     `json:"due_date"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	Notes      string          `json:"notes,omitempty"`
	PaidDate   *shared.Date    `json:"paid_date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Items      []LineItem      `json:"line_items,omitempty"`
}

// LineItem model.
type LineItem struct {
	ID          int64           `json:"id"`
	InvoiceID   int64           `json:"invoice_id"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// Input carries the editable fields of an invoice. Create and full edit both
// use it; line items are always replaced wholesale.
type Input struct {
	ClientID  int64
	Number    string
	IssueDate shared.Date
	DueDate   shared.Date
	TaxRate   decimal.Decimal
	Currency  string
	Notes     string
	Lines     []LineDraft
}

// LineDraft is a submitted line entry before filtering.
type LineDraft struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// ListFilter narrows invoice listings.
type ListFilter struct {
	Status   Status
	ClientID int64
}
