package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Repository loads the rows Build aggregates.
type Repository interface {
	Snapshot(ctx context.Context, owner shared.Owner, expensesSince shared.Date) (Snapshot, error)
}

// PGRepository reads dashboard snapshots from PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Snapshot runs the three owner-scoped reads concurrently.
func (r *PGRepository) Snapshot(ctx context.Context, owner shared.Owner, expensesSince shared.Date) (Snapshot, error) {
	if !owner.Valid() {
		return Snapshot{}, shared.ErrOwnerRequired
	}
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.invoices(gctx, owner.ID())
		snap.Invoices = rows
		return err
	})
	g.Go(func() error {
		rows, err := r.expenses(gctx, owner.ID(), expensesSince)
		snap.Expenses = rows
		return err
	})
	g.Go(func() error {
		err := r.pool.QueryRow(gctx, `SELECT COUNT(*) FROM clients WHERE user_id = $1`, owner.ID()).Scan(&snap.ClientCount)
		if err != nil {
			return fmt.Errorf("dashboard: count clients: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (r *PGRepository) invoices(ctx context.Context, owner string) ([]InvoiceRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.invoice_number, i.client_id, c.name, i.status, i.issue_date, i.due_date,
			i.paid_date, i.total, i.currency, i.created_at
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE c.user_id = $1`, owner)
	if err != nil {
		return nil, fmt.Errorf("dashboard: load invoices: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (InvoiceRow, error) {
		var inv InvoiceRow
		err := row.Scan(&inv.ID, &inv.Number, &inv.ClientID, &inv.ClientName, &inv.Status, &inv.IssueDate,
			&inv.DueDate, &inv.PaidDate, &inv.Total, &inv.Currency, &inv.CreatedAt)
		return inv, err
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: scan invoices: %w", err)
	}
	return out, nil
}

func (r *PGRepository) expenses(ctx context.Context, owner string, since shared.Date) ([]ExpenseRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT amount, date FROM expenses WHERE user_id = $1 AND date >= $2`, owner, since)
	if err != nil {
		return nil, fmt.Errorf("dashboard: load expenses: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ExpenseRow, error) {
		var e ExpenseRow
		err := row.Scan(&e.Amount, &e.Date)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: scan expenses: %w", err)
	}
	return out, nil
}

var _ Repository = (*PGRepository)(nil)
