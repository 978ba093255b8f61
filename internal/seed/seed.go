package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invoice-manager/invoice-manager/internal/invoices"
	"github.com/invoice-manager/invoice-manager/internal/platform/db"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Run loads the demo data set for owner inside one transaction. Owners that
// already have clients are left alone and Run reports false.
func Run(ctx context.Context, pool *pgxpool.Pool, owner shared.Owner) (bool, error) {
	if !owner.Valid() {
		return false, shared.ErrOwnerRequired
	}
	data := Demo()
	seeded := false
	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		var existing bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE user_id = $1)`, owner.ID()).Scan(&existing); err != nil {
			return fmt.Errorf("seed: check clients: %w", err)
		}
		if existing {
			return nil
		}
		if err := load(ctx, tx, owner, data); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	return seeded, err
}

func load(ctx context.Context, tx pgx.Tx, owner shared.Owner, data Dataset) error {
	clientIDs := make([]int64, len(data.Clients))
	for i, c := range data.Clients {
		err := tx.QueryRow(ctx, `
			INSERT INTO clients (user_id, name, email, phone, address, city, country, tax_id)
			VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''))
			RETURNING id`,
			owner.ID(), c.Name, c.Email, c.Phone, c.Address, c.City, c.Country, c.TaxID).Scan(&clientIDs[i])
		if err != nil {
			return fmt.Errorf("seed: insert client %s: %w", c.Name, err)
		}
	}

	numbers, err := freeNumbers(ctx, tx, data.Invoices)
	if err != nil {
		return err
	}

	lines := &pgx.Batch{}
	for i, inv := range data.Invoices {
		totals := inv.Totals()
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO invoices (client_id, invoice_number, status, issue_date, due_date,
				subtotal, tax_rate, tax_amount, total, currency, notes, paid_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id`,
			clientIDs[inv.ClientIndex], numbers[i], string(inv.Status), inv.IssueDate, inv.DueDate,
			totals.Subtotal, totals.TaxRate, totals.TaxAmount, totals.Total, inv.Currency, inv.Notes, inv.PaidDate).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed: insert invoice %s: %w", numbers[i], err)
		}
		for pos, l := range totals.Lines {
			lines.Queue(`
				INSERT INTO line_items (invoice_id, position, description, quantity, unit_price, amount)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				id, pos, l.Description, l.Quantity, l.UnitPrice, l.Amount)
		}
	}
	for _, e := range data.Expenses {
		lines.Queue(`
			INSERT INTO expenses (user_id, category, description, amount, currency, date, vendor, tax_deductible)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)`,
			owner.ID(), string(e.Category), e.Description, e.Amount, e.Currency, e.Date, e.Vendor, e.TaxDeductible)
	}
	for _, in := range data.Insights {
		lines.Queue(`
			INSERT INTO financial_insights (insight_type, content, model_used, requested_by)
			VALUES ($1, $2, $3, $4)`,
			string(in.Type), in.Content, ModelUsed, owner.ID())
	}

	results := tx.SendBatch(ctx, lines)
	for i := 0; i < lines.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("seed: insert rows: %w", err)
		}
	}
	return results.Close()
}

// freeNumbers keeps the demo invoice numbers that are still unused and
// allocates the next free number of the same year for the rest.
func freeNumbers(ctx context.Context, tx pgx.Tx, invs []Invoice) ([]string, error) {
	rows, err := tx.Query(ctx, `SELECT invoice_number FROM invoices WHERE invoice_number LIKE 'INV-%'`)
	if err != nil {
		return nil, fmt.Errorf("seed: list numbers: %w", err)
	}
	taken, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("seed: list numbers: %w", err)
	}
	return AssignNumbers(invs, taken), nil
}

// AssignNumbers returns one number per invoice, avoiding every number in
// taken and every number assigned earlier in the same call.
func AssignNumbers(invs []Invoice, taken []string) []string {
	used := make(map[string]struct{}, len(taken)+len(invs))
	all := make([]string, 0, len(taken)+len(invs))
	for _, n := range taken {
		used[n] = struct{}{}
		all = append(all, n)
	}
	out := make([]string, len(invs))
	for i, inv := range invs {
		number := inv.Number
		if _, clash := used[number]; clash || strings.TrimSpace(number) == "" {
			year := time.Date(inv.IssueDate.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
			number = invoices.NextNumber(year, all)
		}
		used[number] = struct{}{}
		all = append(all, number)
		out[i] = number
	}
	return out
}
