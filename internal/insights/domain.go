// Package insights generates narrative financial analyses of an owner's data
// through a text-generation provider and keeps them.
package insights

import (
	"encoding/json"
	"time"
)

// Type names the analysis requested.
type Type string

const (
	TypeRevenueForecast Type = "revenue_forecast"
	TypeExpenseAnalysis Type = "expense_analysis"
	TypeCashFlow        Type = "cash_flow"
	TypeClientSummary   Type = "client_summary"
)

// Types lists the supported analyses.
var Types = []Type{TypeRevenueForecast, TypeExpenseAnalysis, TypeCashFlow, TypeClientSummary}

// Valid reports whether t is a supported analysis.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Context limits per analysis.
const (
	RecentLimit   = 50
	CashFlowLimit = 20
)

// Insight is a persisted generated analysis.
type Insight struct {
	ID          int64     `json:"id"`
	Type        Type      `json:"insight_type"`
	Content     string    `json:"content"`
	Model       string    `json:"model_used"`
	GeneratedAt time.Time `json:"generated_at"`
	RequestedBy string    `json:"requested_by"`
}

// Result is what an analysis request returns.
type Result struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// InvoiceRecord is an invoice flattened for the provider.
type InvoiceRecord struct {
	ID            int64       `json:"id"`
	ClientID      int64       `json:"client_id"`
	InvoiceNumber string      `json:"invoice_number"`
	Status        string      `json:"status"`
	IssueDate     string      `json:"issue_date"`
	DueDate       string      `json:"due_date"`
	Subtotal      json.Number `json:"subtotal"`
	TaxRate       json.Number `json:"tax_rate"`
	TaxAmount     json.Number `json:"tax_amount"`
	Total         json.Number `json:"total"`
	Currency      string      `json:"currency"`
	Notes         *string     `json:"notes"`
	PaidDate      *string     `json:"paid_date"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     string      `json:"updated_at"`
}

// ExpenseRecord is an expense flattened for the provider.
type ExpenseRecord struct {
	ID            int64       `json:"id"`
	UserID        string      `json:"user_id"`
	Category      string      `json:"category"`
	Description   string      `json:"description"`
	Amount        json.Number `json:"amount"`
	Currency      string      `json:"currency"`
	Date          string      `json:"date"`
	Vendor        *string     `json:"vendor"`
	ReceiptRef    *string     `json:"receipt_ref"`
	TaxDeductible bool        `json:"tax_deductible"`
	CreatedAt     string      `json:"created_at"`
}

// ClientRecord is a client flattened for the provider with its invoice totals.
type ClientRecord struct {
	ID            int64       `json:"id"`
	UserID        string      `json:"user_id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Phone         *string     `json:"phone"`
	Address       *string     `json:"address"`
	City          *string     `json:"city"`
	Country       *string     `json:"country"`
	TaxID         *string     `json:"tax_id"`
	Notes         *string     `json:"notes"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     string      `json:"updated_at"`
	TotalInvoiced json.Number `json:"total_invoiced"`
	TotalPaid     json.Number `json:"total_paid"`
}
