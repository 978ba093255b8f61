// Package money turns invoice line entries into amounts and totals.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LineInput is a candidate line entry as submitted on an invoice form.
type LineInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Line is a retained entry annotated with its amount.
type Line struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// Totals is the result of pricing a set of lines at a tax rate.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
	Lines     []Line          `json:"lines"`
}

// Included reports whether an entry contributes to totals: it needs a
// non-blank description and a strictly positive quantity.
func (in LineInput) Included() bool {
	return strings.TrimSpace(in.Description) != "" && in.Quantity.IsPositive()
}

// Calculate prices the retained entries in input order. taxRate is a
// percentage, so 10 means 10%. Nothing is rounded here.
func Calculate(inputs []LineInput, taxRate decimal.Decimal) Totals {
	lines := make([]Line, 0, len(inputs))
	subtotal := decimal.Zero
	for _, in := range inputs {
		if !in.Included() {
			continue
		}
		amount := in.Quantity.Mul(in.UnitPrice)
		subtotal = subtotal.Add(amount)
		lines = append(lines, Line{
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Amount:      amount,
		})
	}
	tax := TaxOn(subtotal, taxRate)
	return Totals{
		Subtotal:  subtotal,
		TaxRate:   taxRate,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
		Lines:     lines,
	}
}

// TaxOn returns subtotal * rate / 100 without rounding.
func TaxOn(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Shift(-2)
}

// Sum adds the given amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(amounts[0], amounts[1:]...)
}
