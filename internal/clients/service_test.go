package clients

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

type memoryRow struct {
	owner    string
	client   Client
	invoices []InvoiceRef
}

type memoryRepo struct {
	rows   map[int64]*memoryRow
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[int64]*memoryRow)}
}

func (r *memoryRepo) ForOwner(owner shared.Owner) (Store, error) {
	if !owner.Valid() {
		return nil, shared.ErrOwnerRequired
	}
	return &memoryStore{repo: r, owner: owner.ID()}, nil
}

type memoryStore struct {
	repo  *memoryRepo
	owner string
}

func (s *memoryStore) row(id int64) (*memoryRow, error) {
	row, ok := s.repo.rows[id]
	if !ok || row.owner != s.owner {
		return nil, fmt.Errorf("%w: client %d", httpx.ErrNotFound, id)
	}
	return row, nil
}

func (s *memoryStore) List(context.Context) ([]Summary, error) {
	var out []Summary
	for _, row := range s.repo.rows {
		if row.owner != s.owner {
			continue
		}
		sum := Summary{Client: row.client, TotalInvoiced: decimal.Zero, TotalPaid: decimal.Zero}
		for _, inv := range row.invoices {
			sum.TotalInvoiced = sum.TotalInvoiced.Add(inv.Total)
			if inv.Status == "paid" {
				sum.TotalPaid = sum.TotalPaid.Add(inv.Total)
			}
		}
		sum.OutstandingBalance = sum.TotalInvoiced.Sub(sum.TotalPaid)
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memoryStore) Get(_ context.Context, id int64) (*Client, error) {
	row, err := s.row(id)
	if err != nil {
		return nil, err
	}
	c := row.client
	return &c, nil
}

func (s *memoryStore) Invoices(_ context.Context, clientID int64) ([]InvoiceRef, error) {
	row, err := s.row(clientID)
	if err != nil {
		return nil, err
	}
	return row.invoices, nil
}

func (s *memoryStore) Create(_ context.Context, in Input) (*Client, error) {
	s.repo.nextID++
	c := Client{ID: s.repo.nextID, Name: in.Name, Email: in.Email, Phone: in.Phone, City: in.City}
	s.repo.rows[c.ID] = &memoryRow{owner: s.owner, client: c}
	return &c, nil
}

func (s *memoryStore) Update(_ context.Context, id int64, in Input) (*Client, error) {
	row, err := s.row(id)
	if err != nil {
		return nil, err
	}
	row.client.Name = in.Name
	row.client.Email = in.Email
	c := row.client
	return &c, nil
}

func (s *memoryStore) Delete(_ context.Context, id int64) error {
	if _, err := s.row(id); err != nil {
		return err
	}
	delete(s.repo.rows, id)
	return nil
}

type recordingNotifier struct{ owners []string }

func (n *recordingNotifier) NotifyChange(_ context.Context, owner shared.Owner) {
	n.owners = append(n.owners, owner.ID())
}

func TestCreateValidatesAndNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(newMemoryRepo(), notifier, nil)
	ctx := context.Background()
	alice := shared.MustOwner("alice")

	_, err := svc.Create(ctx, alice, Input{Name: "  ", Email: "a@example.com"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, alice, Input{Name: "Acme", Email: "not-an-email"})
	require.ErrorIs(t, err, httpx.ErrValidation)
	assert.Contains(t, err.Error(), "email failed email")

	c, err := svc.Create(ctx, alice, Input{Name: " Acme ", Email: "billing@acme.test"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, []string{"alice"}, notifier.owners)
}

func TestListTotalsAndDetailRevenue(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	alice := shared.MustOwner("alice")

	c, err := svc.Create(ctx, alice, Input{Name: "Acme", Email: "billing@acme.test"})
	require.NoError(t, err)
	repo.rows[c.ID].invoices = []InvoiceRef{
		{ID: 1, Status: "paid", Total: decimal.RequireFromString("1200.50")},
		{ID: 2, Status: "sent", Total: decimal.RequireFromString("300")},
		{ID: 3, Status: "draft", Total: decimal.RequireFromString("99.50")},
	}

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1600", list[0].TotalInvoiced.String())
	assert.Equal(t, "1200.5", list[0].TotalPaid.String())
	assert.Equal(t, "399.5", list[0].OutstandingBalance.String())

	detail, err := svc.Detail(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Invoices, 3)
	assert.Equal(t, "1200.5", detail.TotalRevenue.String())
}

func TestClientsAreOwnerScoped(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()
	alice := shared.MustOwner("alice")
	bob := shared.MustOwner("bob")

	c, err := svc.Create(ctx, alice, Input{Name: "Acme", Email: "billing@acme.test"})
	require.NoError(t, err)

	_, err = svc.Detail(ctx, bob, c.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
	_, err = svc.Update(ctx, bob, c.ID, Input{Name: "Stolen", Email: "x@example.com"})
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, bob, c.ID), httpx.ErrNotFound)

	list, err := svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.Detail(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Client.Name)
}

func TestDeleteRemovesClientWithItsInvoices(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, nil)
	ctx := context.Background()
	alice := shared.MustOwner("alice")

	c, err := svc.Create(ctx, alice, Input{Name: "Acme", Email: "billing@acme.test"})
	require.NoError(t, err)
	repo.rows[c.ID].invoices = []InvoiceRef{{ID: 1, Status: "sent", Total: decimal.RequireFromString("300")}}

	require.NoError(t, svc.Delete(ctx, alice, c.ID))
	assert.Equal(t, []string{"alice", "alice"}, notifier.owners)

	_, err = svc.Detail(ctx, alice, c.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, repo.rows)
}
