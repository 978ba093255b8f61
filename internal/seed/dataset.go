// Package seed loads the demo data set new owners start with.
package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoice-manager/invoice-manager/internal/expenses"
	"github.com/invoice-manager/invoice-manager/internal/insights"
	"github.com/invoice-manager/invoice-manager/internal/invoices"
	"github.com/invoice-manager/invoice-manager/internal/money"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// ModelUsed marks insights that were not produced by a provider.
const ModelUsed = "seed_data"

// Client is a demo client row.
type Client struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	Country string
	TaxID   string
}

// Invoice is a demo invoice. ClientIndex points into Dataset.Clients.
type Invoice struct {
	ClientIndex int
	Number      string
	Status      invoices.Status
	IssueDate   shared.Date
	DueDate     shared.Date
	TaxRate     decimal.Decimal
	Currency    string
	Notes       string
	PaidDate    *shared.Date
	Lines       []money.LineInput
}

// Totals prices the invoice lines.
func (inv Invoice) Totals() money.Totals {
	return money.Calculate(inv.Lines, inv.TaxRate)
}

// Expense is a demo expense row.
type Expense struct {
	Category      expenses.Category
	Description   string
	Amount        decimal.Decimal
	Currency      string
	Date          shared.Date
	Vendor        string
	TaxDeductible bool
}

// Insight is a pre-written insight row.
type Insight struct {
	Type    insights.Type
	Content string
}

// Dataset is the complete demo data set.
type Dataset struct {
	Clients  []Client
	Invoices []Invoice
	Expenses []Expense
	Insights []Insight
}

func day(m time.Month, d int) shared.Date {
	return shared.NewDate(2026, m, d)
}

func paid(m time.Month, d int) *shared.Date {
	date := day(m, d)
	return &date
}

func line(desc string, qty, price string) money.LineInput {
	return money.LineInput{
		Description: desc,
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   decimal.RequireFromString(price),
	}
}

func usd(amount string) decimal.Decimal {
	return decimal.RequireFromString(amount)
}

// Demo returns the demo data set.
func Demo() Dataset {
	return Dataset{
		Clients: []Client{
			{Name: "Acme Corporation", Email: "billing@acme.com", Phone: "+1-555-0201", Address: "123 Business Ave", City: "San Francisco", Country: "US", TaxID: "US-94-1234567"},
			{Name: "TechStart Inc", Email: "ap@techstart.io", Phone: "+1-555-0202", Address: "456 Innovation Blvd", City: "Austin", Country: "US", TaxID: "US-73-7654321"},
			{Name: "Global Retail Group", Email: "finance@globalretail.com", Phone: "+44-20-5550303", Address: "78 Commerce St", City: "London", Country: "UK", TaxID: "GB-123456789"},
			{Name: "Nordic Design Studio", Email: "invoices@nordicdesign.se", Phone: "+46-8-5550404", Address: "15 Kreativ Gatan", City: "Stockholm", Country: "SE", TaxID: "SE-559012345601"},
			{Name: "Marina Bay Consulting", Email: "accounts@marinabay.sg", Phone: "+65-5550505", Address: "88 Raffles Place", City: "Singapore", Country: "SG", TaxID: "SG-201912345K"},
			{Name: "Cloudworks Solutions", Email: "billing@cloudworks.dev", Phone: "+1-555-0606", Address: "321 Cloud Lane", City: "Seattle", Country: "US"},
		},
		Invoices: []Invoice{
			{
				ClientIndex: 0, Number: "INV-2026-001", Status: invoices.StatusPaid,
				IssueDate: day(time.January, 5), DueDate: day(time.January, 20), PaidDate: paid(time.January, 18),
				TaxRate: decimal.NewFromInt(10), Currency: "USD", Notes: "Website redesign - Phase 1",
				Lines: []money.LineInput{
					line("UX Research & Discovery", "40", "150"),
					line("UI Design - Homepage & Landing Pages", "25", "175"),
					line("Design System Documentation", "12.5", "170"),
				},
			},
			{
				ClientIndex: 0, Number: "INV-2026-002", Status: invoices.StatusPaid,
				IssueDate: day(time.January, 20), DueDate: day(time.February, 5), PaidDate: paid(time.February, 3),
				TaxRate: decimal.NewFromInt(10), Currency: "USD", Notes: "Website redesign - Phase 2",
				Lines: []money.LineInput{
					line("Frontend Development", "50", "170"),
				},
			},
			{
				ClientIndex: 1, Number: "INV-2026-003", Status: invoices.StatusSent,
				IssueDate: day(time.February, 1), DueDate: day(time.February, 15),
				TaxRate: decimal.Zero, Currency: "USD", Notes: "Mobile app development - Sprint 1",
				Lines: []money.LineInput{
					line("React Native Development", "60", "175"),
					line("API Integration", "30", "150"),
				},
			},
			{
				ClientIndex: 2, Number: "INV-2026-004", Status: invoices.StatusOverdue,
				IssueDate: day(time.January, 10), DueDate: day(time.January, 25),
				TaxRate: decimal.NewFromInt(20), Currency: "GBP", Notes: "E-commerce platform integration",
				Lines: []money.LineInput{
					line("Shopify Integration", "80", "160"),
					line("Payment Gateway Setup", "40", "155"),
					line("Data Migration Scripts", "20", "150"),
				},
			},
			{
				ClientIndex: 3, Number: "INV-2026-005", Status: invoices.StatusDraft,
				IssueDate: day(time.February, 10), DueDate: day(time.February, 25),
				TaxRate: decimal.NewFromInt(25), Currency: "SEK", Notes: "Brand identity refresh",
				Lines: []money.LineInput{
					line("Brand Strategy Workshop", "8", "200"),
					line("Logo & Visual Identity Design", "30", "175"),
					line("Brand Guidelines Document", "5", "130"),
				},
			},
			{
				ClientIndex: 4, Number: "INV-2026-006", Status: invoices.StatusSent,
				IssueDate: day(time.February, 8), DueDate: day(time.February, 22),
				TaxRate: decimal.NewFromInt(8), Currency: "SGD", Notes: "AI strategy consulting - February",
				Lines: []money.LineInput{
					line("AI Strategy Assessment", "40", "250"),
					line("Implementation Roadmap", "20", "250"),
					line("Team Training Sessions", "12", "250"),
				},
			},
			{
				ClientIndex: 5, Number: "INV-2026-007", Status: invoices.StatusPaid,
				IssueDate: day(time.January, 15), DueDate: day(time.January, 30), PaidDate: paid(time.January, 28),
				TaxRate: decimal.NewFromInt(10), Currency: "USD", Notes: "Cloud migration assessment",
				Lines: []money.LineInput{
					line("Cloud Architecture Review", "20", "175"),
					line("Migration Plan Document", "10", "150"),
				},
			},
			{
				ClientIndex: 1, Number: "INV-2026-008", Status: invoices.StatusViewed,
				IssueDate: day(time.February, 12), DueDate: day(time.February, 26),
				TaxRate: decimal.Zero, Currency: "USD", Notes: "Mobile app development - Sprint 2",
				Lines: []money.LineInput{
					line("React Native Development - Sprint 2", "60", "175"),
					line("Push Notification System", "30", "150"),
				},
			},
		},
		Expenses: []Expense{
			{Category: expenses.CategorySoftware, Description: "GitHub Team Plan", Amount: usd("44.00"), Date: day(time.January, 1), Vendor: "GitHub", Currency: "USD", TaxDeductible: true},
			{Category: expenses.CategorySoftware, Description: "Figma Professional", Amount: usd("15.00"), Date: day(time.January, 1), Vendor: "Figma", Currency: "USD", TaxDeductible: true},
			{Category: expenses.CategorySoftware, Description: "AWS Monthly", Amount: usd("287.50"), Date: day(time.January, 31), Vendor: "Amazon Web Services", Currency: "USD", TaxDeductible: true},
			{Category: expenses.CategoryHardware, Description: "Mechanical Keyboard", Amount: usd("189.00"), Date: day(time.January, 15), Vendor: "Keychron", Currency: "USD", TaxDeductible: true},
			{Category: expenses.CategoryTravel, Description: "Client meeting - Flight SFO to AUS", Amount: usd("385.00"), Date: day(time.January, 22), Vendor: "United Airlines", Currency: "USD", TaxDeductible: true},
			{Category: expenses.CategoryTravel, Description: "Hotel 2 nights - Austin", Amount: usd("420.00"), Date: day(time.January, 22), Vendor: "Hilton", Currency: "USD", TaxDeductible: true},
			{Category: expenses.CategoryMarketing, Description: "LinkedIn Ads - January", Amount: usd("500.00"), Date: day(time.January, 31), Vendor: "LinkedIn", Currency: "USD", TaxDeductible: true},
			{Category: expenses.CategoryProfessional, Description: "Accounting services Q4", Amount: usd("750.00"), Date: day(time.January, 10), Vendor: "Smith & Associates CPA", Currency: "USD", TaxDeductible: true},
			{Category: expenses.CategoryOffice, Description: "Coworking space February", Amount: usd("350.00"), Date: day(time.February, 1), Vendor: "WeWork", Currency: "USD", TaxDeductible: true},
			{Category: expenses.CategorySoftware, Description: "Anthropic API usage", Amount: usd("200.00"), Date: day(time.February, 1), Vendor: "Anthropic", Currency: "USD", TaxDeductible: true},
		},
		Insights: []Insight{
			{
				Type: insights.TypeRevenueForecast,
				Content: "REVENUE TREND: Q1 2026 is tracking strong at $89,815 invoiced across 8 invoices. " +
					"Based on current pipeline: $15,000 pending from TechStart (Sprint 1), $19,440 from Marina Bay Consulting, " +
					"and $9,375 draft for Nordic Design. If all outstanding invoices are collected, Q1 revenue will reach $89,815. " +
					"RISK: Global Retail Group invoice ($26,400 GBP) is overdue by 21 days. Recommend immediate follow-up. " +
					"Cash collection rate: 72% within terms.",
			},
			{
				Type: insights.TypeExpenseAnalysis,
				Content: "EXPENSE BREAKDOWN (Jan-Feb 2026): Total expenses $3,140.50. Software subscriptions: $546.50 (17%). " +
					"Travel: $805.00 (26%). Marketing: $500.00 (16%). Professional services: $750.00 (24%). " +
					"Hardware: $189.00 (6%). Office: $350.00 (11%). 100% of expenses are tax-deductible. " +
					"RECOMMENDATION: Software costs are well-controlled. Travel expenses are high relative to revenue; " +
					"consider video calls for routine client meetings.",
			},
		},
	}
}
