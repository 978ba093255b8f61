package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Repository hands out owner-scoped client stores.
type Repository interface {
	ForOwner(owner shared.Owner) (Store, error)
}

// Store is the persistence boundary for one owner's clients.
type Store interface {
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, id int64) (*Client, error)
	Invoices(ctx context.Context, clientID int64) ([]InvoiceRef, error)
	Create(ctx context.Context, in Input) (*Client, error)
	Update(ctx context.Context, id int64, in Input) (*Client, error)
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

const clientColumns = `id, name, email, COALESCE(phone, ''), COALESCE(address, ''), COALESCE(city, ''),
	COALESCE(country, ''), COALESCE(tax_id, ''), COALESCE(notes, ''), created_at, updated_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City, &c.Country, &c.TaxID, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *pgStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.name, c.email, COALESCE(c.phone, ''), COALESCE(c.address, ''), COALESCE(c.city, ''),
			COALESCE(c.country, ''), COALESCE(c.tax_id, ''), COALESCE(c.notes, ''), c.created_at, c.updated_at,
			COALESCE(SUM(i.total), 0),
			COALESCE(SUM(i.total) FILTER (WHERE i.status = 'paid'), 0)
		FROM clients c
		LEFT JOIN invoices i ON i.client_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.name, c.id`, s.owner)
	if err != nil {
		return nil, fmt.Errorf("clients: list: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		c := &sum.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City, &c.Country, &c.TaxID, &c.Notes,
			&c.CreatedAt, &c.UpdatedAt, &sum.TotalInvoiced, &sum.TotalPaid); err != nil {
			return nil, fmt.Errorf("clients: scan: %w", err)
		}
		sum.OutstandingBalance = sum.TotalInvoiced.Sub(sum.TotalPaid)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *pgStore) Get(ctx context.Context, id int64) (*Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1 AND user_id = $2`, id, s.owner))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: client %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("clients: get: %w", err)
	}
	return &c, nil
}

func (s *pgStore) Invoices(ctx context.Context, clientID int64) ([]InvoiceRef, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.invoice_number, i.status, i.issue_date, i.due_date, i.total, i.currency
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.client_id = $1 AND c.user_id = $2
		ORDER BY i.issue_date DESC, i.id DESC`, clientID, s.owner)
	if err != nil {
		return nil, fmt.Errorf("clients: list invoices: %w", err)
	}
	refs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (InvoiceRef, error) {
		var ref InvoiceRef
		err := row.Scan(&ref.ID, &ref.Number, &ref.Status, &ref.IssueDate, &ref.DueDate, &ref.Total, &ref.Currency)
		return ref, err
	})
	if err != nil {
		return nil, fmt.Errorf("clients: scan invoices: %w", err)
	}
	return refs, nil
}

func (s *pgStore) Create(ctx context.Context, in Input) (*Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx, `
		INSERT INTO clients (user_id, name, email, phone, address, city, country, tax_id, notes)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))
		RETURNING `+clientColumns,
		s.owner, in.Name, in.Email, in.Phone, in.Address, in.City, in.Country, in.TaxID, in.Notes))
	if err != nil {
		return nil, fmt.Errorf("clients: create: %w", err)
	}
	return &c, nil
}

func (s *pgStore) Update(ctx context.Context, id int64, in Input) (*Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx, `
		UPDATE clients SET
			name = $3, email = $4, phone = NULLIF($5, ''), address = NULLIF($6, ''), city = NULLIF($7, ''),
			country = NULLIF($8, ''), tax_id = NULLIF($9, ''), notes = NULLIF($10, ''), updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+clientColumns,
		id, s.owner, in.Name, in.Email, in.Phone, in.Address, in.City, in.Country, in.TaxID, in.Notes))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: client %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("clients: update: %w", err)
	}
	return &c, nil
}

func (s *pgStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1 AND user_id = $2`, id, s.owner)
	if err != nil {
		return fmt.Errorf("clients: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: client %d", httpx.ErrNotFound, id)
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
