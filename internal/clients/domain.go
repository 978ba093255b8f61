// Package clients manages the customers invoices are billed to.
package clients

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Client model.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	TaxID     string    `json:"tax_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is a client annotated with its invoice totals.
type Summary struct {
	Client
	TotalInvoiced      decimal.Decimal `json:"total_invoiced"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

// InvoiceRef is the slice of an invoice shown on a client's detail page.
type InvoiceRef struct {
	ID        int64           `json:"id"`
	Number    string          `json:"invoice_number"`
	Status    string          `json:"status"`
	IssueDate shared.Date     `json:"issue_date"`
	DueDate   shared.Date     `json:"due_date"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
}

// Detail is a client with its invoices, newest first.
type Detail struct {
	Client       Client          `json:"client"`
	Invoices     []InvoiceRef    `json:"invoices"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// Input carries the editable client fields.
type Input struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=20"`
	Address string `json:"address" validate:"max=500"`
	City    string `json:"city" validate:"max=100"`
	Country string `json:"country" validate:"max=100"`
	TaxID   string `json:"tax_id" validate:"max=50"`
	Notes   string `json:"notes" validate:"max=2000"`
}
