package expenses

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Repository hands out owner-scoped expense stores.
type Repository interface {
	ForOwner(owner shared.Owner) (Store, error)
}

// Store is the persistence boundary for one owner's expenses.
type Store interface {
	List(ctx context.Context, category Category) ([]Expense, error)
	Get(ctx context.Context, id int64) (*Expense, error)
	Create(ctx context.Context, in Input) (*Expense, error)
	Update(ctx context.Context, id int64, in Input) (*Expense, error)
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
	return &pgStore{pool: r.pool, owner: owner.ID()}, nil
}

type pgStore struct {
	pool  *pgxpool.Pool
	owner string
}

const expenseColumns = `id, category, description, amount, currency, date,
	COALESCE(vendor, ''), COALESCE(receipt_ref, ''), tax_deductible, created_at`

func scanExpense(row pgx.Row) (Expense, error) {
	var e Expense
	err := row.Scan(&e.ID, &e.Category, &e.Description, &e.Amount, &e.Currency, &e.Date,
		&e.Vendor, &e.ReceiptRef, &e.TaxDeductible, &e.CreatedAt)
	return e, err
}

func (s *pgStore) List(ctx context.Context, category Category) ([]Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = $1`
	args := []any{s.owner}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, string(category))
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("expenses: list: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Expense, error) {
		return scanExpense(row)
	})
	if err != nil {
		return nil, fmt.Errorf("expenses: scan: %w", err)
	}
	return out, nil
}

func (s *pgStore) Get(ctx context.Context, id int64) (*Expense, error) {
	e, err := scanExpense(s.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND user_id = $2`, id, s.owner))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("expenses: get: %w", err)
	}
	return &e, nil
}

func (s *pgStore) Create(ctx context.Context, in Input) (*Expense, error) {
	e, err := scanExpense(s.pool.QueryRow(ctx, `
		INSERT INTO expenses (user_id, category, description, amount, currency, date, vendor, receipt_ref, tax_deductible)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9)
		RETURNING `+expenseColumns,
		s.owner, string(in.Category), in.Description, in.Amount, in.Currency, in.Date, in.Vendor, in.ReceiptRef, in.TaxDeductible))
	if err != nil {
		return nil, fmt.Errorf("expenses: create: %w", err)
	}
	return &e, nil
}

func (s *pgStore) Update(ctx context.Context, id int64, in Input) (*Expense, error) {
	e, err := scanExpense(s.pool.QueryRow(ctx, `
		UPDATE expenses SET
			category = $3, description = $4, amount = $5, currency = $6, date = $7,
			vendor = NULLIF($8, ''), receipt_ref = NULLIF($9, ''), tax_deductible = $10
		WHERE id = $1 AND user_id = $2
		RETURNING `+expenseColumns,
		id, s.owner, string(in.Category), in.Description, in.Amount, in.Currency, in.Date, in.Vendor, in.ReceiptRef, in.TaxDeductible))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("expenses: update: %w", err)
	}
	return &e, nil
}

func (s *pgStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, s.owner)
	if err != nil {
		return fmt.Errorf("expenses: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %d", httpx.ErrNotFound, id)
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
