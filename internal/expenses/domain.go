// Package expenses records business spending.
package expenses

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Category groups expenses for reporting.
type Category string

const (
	CategorySoftware     Category = "software"
	CategoryHardware     Category = "hardware"
	CategoryTravel       Category = "travel"
	CategoryOffice       Category = "office"
	CategoryMarketing    Category = "marketing"
	CategoryProfessional Category = "professional"
	CategoryUtilities    Category = "utilities"
	CategoryOther        Category = "other"
)

// Categories lists the known categories.
var Categories = []Category{
	CategorySoftware, CategoryHardware, CategoryTravel, CategoryOffice,
	CategoryMarketing, CategoryProfessional, CategoryUtilities, CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense model.
type Expense struct {
	ID            int64           `json:"id"`
	Category      Category        `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Date          shared.Date     `json:"date"`
	Vendor        string          `json:"vendor,omitempty"`
	ReceiptRef    string          `json:"receipt_ref,omitempty"`
	TaxDeductible bool            `json:"tax_deductible"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Input carries the editable expense fields.
type Input struct {
	Category      Category        `json:"category"`
	Description   string          `json:"description" validate:"required,max=500"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"omitempty,len=3,alpha"`
	Date          shared.Date     `json:"date"`
	Vendor        string          `json:"vendor" validate:"max=200"`
	ReceiptRef    string          `json:"receipt_ref" validate:"max=500"`
	TaxDeductible bool            `json:"tax_deductible"`
}

// Listing is a filtered set of expenses and their sum.
type Listing struct {
	Expenses    []Expense       `json:"expenses"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Categories  []Category      `json:"categories"`
	Selected    Category        `json:"selected_category,omitempty"`
}
