package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/invoice-manager/invoice-manager/internal/platform/db"
	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Repository hands out owner-scoped insight stores.
type Repository interface {
	ForOwner(owner shared.Owner) (Store, error)
}

// Store reads analysis inputs and keeps generated insights for one owner.
type Store interface {
	Source
	Save(ctx context.Context, insight Insight) (Insight, error)
	List(ctx context.Context) ([]Insight, error)
	Get(ctx context.Context, id int64) (*Insight, error)
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ForOwner returns the store scoped to owner.
func (r *PGRepository) ForOwner(owner shared.Owner) (Store, error) {
	if !owner.Valid() {
		return nil, shared.ErrOwnerRequired
	}
	return &pgStore{pool: r.pool, owner: owner.ID()}, nil
}

type pgStore struct {
	pool  *pgxpool.Pool
	owner string
}

func (s *pgStore) RecentInvoices(ctx context.Context, limit int) ([]InvoiceRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.client_id, i.invoice_number, i.status, i.issue_date, i.due_date,
			i.subtotal, i.tax_rate, i.tax_amount, i.total, i.currency, COALESCE(i.notes, ''),
			i.paid_date, i.created_at, i.updated_at
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE c.user_id = $1
		ORDER BY i.issue_date DESC, i.id DESC
		LIMIT $2`, s.owner, limit)
	if err != nil {
		return nil, fmt.Errorf("insights: load invoices: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (InvoiceRecord, error) {
		var (
			rec                        InvoiceRecord
			issue, due                 shared.Date
			paid                       *shared.Date
			subtotal, rate, tax, total decimal.Decimal
			notes                      string
			createdAt, updatedAt       time.Time
		)
		err := row.Scan(&rec.ID, &rec.ClientID, &rec.InvoiceNumber, &rec.Status, &issue, &due,
			&subtotal, &rate, &tax, &total, &rec.Currency, &notes, &paid, &createdAt, &updatedAt)
		rec.IssueDate, rec.DueDate, rec.PaidDate = isoDate(issue), isoDate(due), isoDatePtr(paid)
		rec.Subtotal, rec.TaxRate, rec.TaxAmount, rec.Total = number(subtotal), number(rate), number(tax), number(total)
		rec.Notes = optional(notes)
		rec.CreatedAt, rec.UpdatedAt = isoTime(createdAt), isoTime(updatedAt)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("insights: scan invoices: %w", err)
	}
	return out, nil
}

func (s *pgStore) RecentExpenses(ctx context.Context, limit int) ([]ExpenseRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, category, description, amount, currency, date,
			COALESCE(vendor, ''), COALESCE(receipt_ref, ''), tax_deductible, created_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2`, s.owner, limit)
	if err != nil {
		return nil, fmt.Errorf("insights: load expenses: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ExpenseRecord, error) {
		var (
			rec             ExpenseRecord
			amount          decimal.Decimal
			date            shared.Date
			vendor, receipt string
			createdAt       time.Time
		)
		err := row.Scan(&rec.ID, &rec.UserID, &rec.Category, &rec.Description, &amount, &rec.Currency, &date,
			&vendor, &receipt, &rec.TaxDeductible, &createdAt)
		rec.Amount, rec.Date = number(amount), isoDate(date)
		rec.Vendor, rec.ReceiptRef = optional(vendor), optional(receipt)
		rec.CreatedAt = isoTime(createdAt)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("insights: scan expenses: %w", err)
	}
	return out, nil
}

func (s *pgStore) ClientsWithTotals(ctx context.Context) ([]ClientRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.user_id, c.name, c.email, COALESCE(c.phone, ''), COALESCE(c.address, ''),
			COALESCE(c.city, ''), COALESCE(c.country, ''), COALESCE(c.tax_id, ''), COALESCE(c.notes, ''),
			c.created_at, c.updated_at,
			COALESCE(SUM(i.total), 0),
			COALESCE(SUM(i.total) FILTER (WHERE i.status = 'paid'), 0)
		FROM clients c
		LEFT JOIN invoices i ON i.client_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.id`, s.owner)
	if err != nil {
		return nil, fmt.Errorf("insights: load clients: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ClientRecord, error) {
		var (
			rec                                         ClientRecord
			phone, address, city, country, taxID, notes string
			createdAt, updatedAt                        time.Time
			invoiced, paid                              decimal.Decimal
		)
		err := row.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Email, &phone, &address, &city, &country, &taxID, &notes,
			&createdAt, &updatedAt, &invoiced, &paid)
		rec.Phone, rec.Address, rec.City = optional(phone), optional(address), optional(city)
		rec.Country, rec.TaxID, rec.Notes = optional(country), optional(taxID), optional(notes)
		rec.CreatedAt, rec.UpdatedAt = isoTime(createdAt), isoTime(updatedAt)
		rec.TotalInvoiced, rec.TotalPaid = number(invoiced), number(paid)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("insights: scan clients: %w", err)
	}
	return out, nil
}

// Save persists a generated insight in its own transaction.
func (s *pgStore) Save(ctx context.Context, insight Insight) (Insight, error) {
	insight.RequestedBy = s.owner
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO financial_insights (insight_type, content, model_used, requested_by)
			VALUES ($1, $2, $3, $4)
			RETURNING id, generated_at`,
			string(insight.Type), insight.Content, insight.Model, insight.RequestedBy,
		).Scan(&insight.ID, &insight.GeneratedAt)
	})
	if err != nil {
		return Insight{}, fmt.Errorf("insights: save: %w", err)
	}
	return insight, nil
}

const insightColumns = `id, insight_type, content, COALESCE(model_used, ''), generated_at, COALESCE(requested_by, '')`

func scanInsight(row pgx.Row) (Insight, error) {
	var in Insight
	err := row.Scan(&in.ID, &in.Type, &in.Content, &in.Model, &in.GeneratedAt, &in.RequestedBy)
	return in, err
}

func (s *pgStore) List(ctx context.Context) ([]Insight, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+insightColumns+` FROM financial_insights
		WHERE requested_by = $1 ORDER BY generated_at DESC, id DESC`, s.owner)
	if err != nil {
		return nil, fmt.Errorf("insights: list: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Insight, error) {
		return scanInsight(row)
	})
	if err != nil {
		return nil, fmt.Errorf("insights: scan: %w", err)
	}
	return out, nil
}

func (s *pgStore) Get(ctx context.Context, id int64) (*Insight, error) {
	in, err := scanInsight(s.pool.QueryRow(ctx, `SELECT `+insightColumns+` FROM financial_insights
		WHERE id = $1 AND requested_by = $2`, id, s.owner))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: insight %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("insights: get: %w", err)
	}
	return &in, nil
}

var _ Repository = (*PGRepository)(nil)
