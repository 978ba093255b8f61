package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invoice-manager/invoice-manager/internal/money"
	"github.com/invoice-manager/invoice-manager/internal/platform/db"
	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

const numberConstraint = "invoices_invoice_number_key"

// editTxOptions runs invoice writes at ReadCommitted: concurrent edits of one
// invoice queue on the header row lock and the later writer wins, instead of
// failing with a serialization error.
var editTxOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

// Repository hands out owner-scoped stores and answers the few questions that
// are global by nature, such as which invoice numbers are taken.
type Repository interface {
	ForOwner(owner shared.Owner) (Store, error)
	NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// Store is the persistence boundary for one owner's invoices. Every query
// reaches invoices through the owner's clients.
type Store interface {
	WithTx(ctx context.Context, fn func(context.Context, Store) error) error
	List(ctx context.Context, filter ListFilter) ([]Invoice, error)
	Get(ctx context.Context, id int64) (*Invoice, error)
	ClientOwned(ctx context.Context, clientID int64) (bool, error)
	Create(ctx context.Context, inv Invoice) (int64, error)
	Update(ctx context.Context, inv Invoice) error
	ReplaceItems(ctx context.Context, invoiceID int64, lines []money.Line) error
	SetStatus(ctx context.Context, id int64, status Status, paidDate *shared.Date) error
	Delete(ctx context.Context, id int64) error
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
	return &pgStore{db: r.pool, pool: r.pool, owner: owner.ID()}, nil
}

// NumbersWithPrefix lists every invoice number system-wide starting with prefix.
func (r *PGRepository) NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT invoice_number FROM invoices WHERE starts_with(invoice_number, $1)`, prefix)
	if err != nil {
		return nil, fmt.Errorf("invoices: list numbers: %w", err)
	}
	numbers, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("invoices: scan numbers: %w", err)
	}
	return numbers, nil
}

type pgStore struct {
	db    db.DBTX
	pool  *pgxpool.Pool
	owner string
}

func (s *pgStore) WithTx(ctx context.Context, fn func(context.Context, Store) error) error {
	if _, ok := s.db.(pgx.Tx); ok {
		return fn(ctx, s)
	}
	return db.WithTxOptions(ctx, s.pool, editTxOptions, func(tx pgx.Tx) error {
		return fn(ctx, &pgStore{db: tx, pool: s.pool, owner: s.owner})
	})
}

const invoiceColumns = `
	i.id, i.client_id, c.name, i.invoice_number, i.status, i.issue_date, i.due_date,
	i.subtotal, i.tax_rate, i.tax_amount, i.total, i.currency, COALESCE(i.notes, ''),
	i.paid_date, i.created_at, i.updated_at`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID, &inv.ClientID, &inv.ClientName, &inv.Number, &inv.Status, &inv.IssueDate, &inv.DueDate,
		&inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Total, &inv.Currency, &inv.Notes,
		&inv.PaidDate, &inv.CreatedAt, &inv.UpdatedAt,
	)
	return inv, err
}

func (s *pgStore) List(ctx context.Context, filter ListFilter) ([]Invoice, error) {
	conditions := []string{"c.user_id = $1"}
	args := []any{s.owner}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", len(args)))
	}
	if filter.ClientID > 0 {
		args = append(args, filter.ClientID)
		conditions = append(conditions, fmt.Sprintf("i.client_id = $%d", len(args)))
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE %s
		ORDER BY i.issue_date DESC, i.id DESC`, invoiceColumns, strings.Join(conditions, " AND "))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("invoices: list: %w", err)
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("invoices: scan: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *pgStore) Get(ctx context.Context, id int64) (*Invoice, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.id = $1 AND c.user_id = $2`, invoiceColumns)
	inv, err := scanInvoice(s.db.QueryRow(ctx, query, id, s.owner))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("invoices: get: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, invoice_id, position, description, quantity, unit_price, amount
		FROM line_items
		WHERE invoice_id = $1
		ORDER BY position, id`, id)
	if err != nil {
		return nil, fmt.Errorf("invoices: list items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Position, &item.Description, &item.Quantity, &item.UnitPrice, &item.Amount); err != nil {
			return nil, fmt.Errorf("invoices: scan item: %w", err)
		}
		inv.Items = append(inv.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *pgStore) ClientOwned(ctx context.Context, clientID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1 AND user_id = $2)`, clientID, s.owner).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("invoices: check client: %w", err)
	}
	return exists, nil
}

// Create inserts the invoice header. Callers must have checked ClientOwned in
// the same transaction.
func (s *pgStore) Create(ctx context.Context, inv Invoice) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO invoices (
			client_id, invoice_number, status, issue_date, due_date,
			subtotal, tax_rate, tax_amount, total, currency, notes, paid_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12)
		RETURNING id`,
		inv.ClientID, inv.Number, string(inv.Status), inv.IssueDate, inv.DueDate,
		inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.Total, inv.Currency, inv.Notes, inv.PaidDate,
	).Scan(&id)
	if db.IsUniqueViolation(err, numberConstraint) {
		return 0, fmt.Errorf("%w: invoice number %s already exists", httpx.ErrDuplicate, inv.Number)
	}
	if err != nil {
		return 0, fmt.Errorf("invoices: create: %w", err)
	}
	return id, nil
}

func (s *pgStore) Update(ctx context.Context, inv Invoice) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE invoices SET
			client_id = $2, invoice_number = $3, issue_date = $4, due_date = $5,
			subtotal = $6, tax_rate = $7, tax_amount = $8, total = $9,
			currency = $10, notes = NULLIF($11, ''), updated_at = NOW()
		WHERE id = $1
		  AND client_id IN (SELECT id FROM clients WHERE user_id = $12)
		  AND EXISTS (SELECT 1 FROM clients WHERE id = $2 AND user_id = $12)`,
		inv.ID, inv.ClientID, inv.Number, inv.IssueDate, inv.DueDate,
		inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.Total,
		inv.Currency, inv.Notes, s.owner,
	)
	if db.IsUniqueViolation(err, numberConstraint) {
		return fmt.Errorf("%w: invoice number %s already exists", httpx.ErrDuplicate, inv.Number)
	}
	if err != nil {
		return fmt.Errorf("invoices: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, inv.ID)
	}
	return nil
}

// ReplaceItems deletes every line of the invoice and inserts lines in order.
// Both steps are restricted to invoices of the store's owner.
func (s *pgStore) ReplaceItems(ctx context.Context, invoiceID int64, lines []money.Line) error {
	var owned bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM invoices i JOIN clients c ON c.id = i.client_id
			WHERE i.id = $1 AND c.user_id = $2
		)`, invoiceID, s.owner).Scan(&owned)
	if err != nil {
		return fmt.Errorf("invoices: check invoice: %w", err)
	}
	if !owned {
		return fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, invoiceID)
	}
	_, err = s.db.Exec(ctx, `
		DELETE FROM line_items
		WHERE invoice_id = $1
		  AND invoice_id IN (
			SELECT i.id FROM invoices i JOIN clients c ON c.id = i.client_id WHERE c.user_id = $2
		  )`, invoiceID, s.owner)
	if err != nil {
		return fmt.Errorf("invoices: clear items: %w", err)
	}
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, line := range lines {
		batch.Queue(`
			INSERT INTO line_items (invoice_id, position, description, quantity, unit_price, amount)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			invoiceID, i, line.Description, line.Quantity, line.UnitPrice, line.Amount)
	}
	results := s.db.SendBatch(ctx, batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("invoices: insert item: %w", err)
		}
	}
	return nil
}

func (s *pgStore) SetStatus(ctx context.Context, id int64, status Status, paidDate *shared.Date) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE invoices SET status = $2, paid_date = $3, updated_at = NOW()
		WHERE id = $1 AND client_id IN (SELECT id FROM clients WHERE user_id = $4)`,
		id, string(status), paidDate, s.owner)
	if err != nil {
		return fmt.Errorf("invoices: set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (s *pgStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM invoices
		WHERE id = $1 AND client_id IN (SELECT id FROM clients WHERE user_id = $2)`, id, s.owner)
	if err != nil {
		return fmt.Errorf("invoices: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, id)
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
