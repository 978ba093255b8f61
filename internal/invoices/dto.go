package invoices

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

var validate = validator.New()

// InvoiceRequest is the JSON body of create and edit calls.
type InvoiceRequest struct {
	ClientID      int64           `json:"client_id" validate:"required,gt=0"`
	InvoiceNumber string          `json:"invoice_number" validate:"required,max=50"`
	IssueDate     shared.Date     `json:"issue_date"`
	DueDate       shared.Date     `json:"due_date"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Currency      string          `json:"currency" validate:"omitempty,len=3,alpha"`
	Notes         string          `json:"notes" validate:"max=2000"`
	LineItems     []LineRequest   `json:"line_items" validate:"dive"`
}

// LineRequest is one submitted line entry. Blank or non-positive entries are
// accepted and dropped during pricing.
type LineRequest struct {
	Description string          `json:"description" validate:"max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// PreviewRequest prices lines without saving.
type PreviewRequest struct {
	TaxRate   decimal.Decimal `json:"tax_rate"`
	LineItems []LineRequest   `json:"line_items" validate:"dive"`
}

// StatusRequest carries the target status label.
type StatusRequest struct {
	Status string `json:"status"`
}

// Validate checks struct-level constraints.
func (r InvoiceRequest) Validate() error {
	return httpx.Invalid(validate.Struct(r))
}

// Input converts the request into service input.
func (r InvoiceRequest) Input() Input {
	return Input{
		ClientID:  r.ClientID,
		Number:    r.InvoiceNumber,
		IssueDate: r.IssueDate,
		DueDate:   r.DueDate,
		TaxRate:   r.TaxRate,
		Currency:  r.Currency,
		Notes:     r.Notes,
		Lines:     toDrafts(r.LineItems),
	}
}

// Validate checks struct-level constraints.
func (r PreviewRequest) Validate() error {
	return httpx.Invalid(validate.Struct(r))
}

func toDrafts(lines []LineRequest) []LineDraft {
	out := make([]LineDraft, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineDraft{Description: l.Description, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return out
}
