package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Source reads the records an analysis is built from, already scoped to one
// owner. Recent means newest issue date (invoices) or expense date first.
type Source interface {
	RecentInvoices(ctx context.Context, limit int) ([]InvoiceRecord, error)
	RecentExpenses(ctx context.Context, limit int) ([]ExpenseRecord, error)
	ClientsWithTotals(ctx context.Context) ([]ClientRecord, error)
}

// BuildContext serializes the data slice for the analysis type, one
// "Label: <json>" line per dataset.
func BuildContext(ctx context.Context, src Source, t Type) (string, error) {
	var lines []string
	switch t {
	case TypeRevenueForecast:
		invoices, err := src.RecentInvoices(ctx, RecentLimit)
		if err != nil {
			return "", err
		}
		line, err := contextLine("Invoices", invoices)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	case TypeExpenseAnalysis:
		expenses, err := src.RecentExpenses(ctx, RecentLimit)
		if err != nil {
			return "", err
		}
		line, err := contextLine("Expenses", expenses)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	case TypeCashFlow:
		invoices, err := src.RecentInvoices(ctx, CashFlowLimit)
		if err != nil {
			return "", err
		}
		expenses, err := src.RecentExpenses(ctx, CashFlowLimit)
		if err != nil {
			return "", err
		}
		invLine, err := contextLine("Invoices", invoices)
		if err != nil {
			return "", err
		}
		expLine, err := contextLine("Expenses", expenses)
		if err != nil {
			return "", err
		}
		lines = append(lines, invLine, expLine)
	case TypeClientSummary:
		clients, err := src.ClientsWithTotals(ctx)
		if err != nil {
			return "", err
		}
		line, err := contextLine("Clients", clients)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	default:
		return "", fmt.Errorf("insights: unsupported type %q", t)
	}
	return strings.Join(lines, "\n"), nil
}

func contextLine[T any](label string, records []T) (string, error) {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("insights: encode %s: %w", strings.ToLower(label), err)
	}
	return label + ": " + string(raw), nil
}

// Prompt renders the fixed analysis instruction around the serialized data.
func Prompt(t Type, data string) string {
	var b strings.Builder
	b.WriteString("You are a financial analyst AI for an invoice management application.\n")
	fmt.Fprintf(&b, "Analyze the provided data and generate a '%s'.\n", t)
	b.WriteString("Provide actionable insights, trends, and recommendations.\n")
	b.WriteString("Keep the tone professional but accessible.\n\n")
	b.WriteString("Data:\n")
	b.WriteString(data)
	return b.String()
}

func isoDate(d shared.Date) string {
	return d.String()
}

func isoDatePtr(d *shared.Date) *string {
	if d == nil || d.IsZero() {
		return nil
	}
	s := d.String()
	return &s
}

func isoTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
