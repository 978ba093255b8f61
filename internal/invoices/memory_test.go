package invoices

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/invoice-manager/invoice-manager/internal/money"
	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

type memoryClient struct {
	owner string
	name  string
}

type memoryRepo struct {
	mu         sync.Mutex
	clients    map[int64]memoryClient
	invoices   map[int64]Invoice
	items      map[int64][]LineItem
	nextID     int64
	nextItemID int64
	failItems  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		clients:  make(map[int64]memoryClient),
		invoices: make(map[int64]Invoice),
		items:    make(map[int64][]LineItem),
	}
}

func (r *memoryRepo) addClient(id int64, owner, name string) {
	r.clients[id] = memoryClient{owner: owner, name: name}
}

func (r *memoryRepo) ForOwner(owner shared.Owner) (Store, error) {
	if !owner.Valid() {
		return nil, shared.ErrOwnerRequired
	}
	return &memoryStore{repo: r, owner: owner.ID()}, nil
}

func (r *memoryRepo) NumbersWithPrefix(_ context.Context, prefix string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, inv := range r.invoices {
		if strings.HasPrefix(inv.Number, prefix) {
			out = append(out, inv.Number)
		}
	}
	return out, nil
}

func (r *memoryRepo) itemCount() int {
	n := 0
	for _, items := range r.items {
		n += len(items)
	}
	return n
}

type memoryStore struct {
	repo  *memoryRepo
	owner string
	inTx  bool
}

// WithTx snapshots state and restores it when fn fails.
func (s *memoryStore) WithTx(ctx context.Context, fn func(context.Context, Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	s.repo.mu.Lock()
	invoices := make(map[int64]Invoice, len(s.repo.invoices))
	for k, v := range s.repo.invoices {
		invoices[k] = v
	}
	items := make(map[int64][]LineItem, len(s.repo.items))
	for k, v := range s.repo.items {
		items[k] = append([]LineItem(nil), v...)
	}
	s.repo.mu.Unlock()

	if err := fn(ctx, &memoryStore{repo: s.repo, owner: s.owner, inTx: true}); err != nil {
		s.repo.mu.Lock()
		s.repo.invoices = invoices
		s.repo.items = items
		s.repo.mu.Unlock()
		return err
	}
	return nil
}

func (s *memoryStore) owns(inv Invoice) bool {
	c, ok := s.repo.clients[inv.ClientID]
	return ok && c.owner == s.owner
}

func (s *memoryStore) List(_ context.Context, filter ListFilter) ([]Invoice, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	var out []Invoice
	for _, inv := range s.repo.invoices {
		if !s.owns(inv) {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.ClientID > 0 && inv.ClientID != filter.ClientID {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.After(out[j].IssueDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memoryStore) Get(_ context.Context, id int64) (*Invoice, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	inv, ok := s.repo.invoices[id]
	if !ok || !s.owns(inv) {
		return nil, fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, id)
	}
	inv.ClientName = s.repo.clients[inv.ClientID].name
	inv.Items = append([]LineItem(nil), s.repo.items[id]...)
	return &inv, nil
}

func (s *memoryStore) ClientOwned(_ context.Context, clientID int64) (bool, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	c, ok := s.repo.clients[clientID]
	return ok && c.owner == s.owner, nil
}

func (s *memoryStore) Create(_ context.Context, inv Invoice) (int64, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	for _, existing := range s.repo.invoices {
		if existing.Number == inv.Number {
			return 0, fmt.Errorf("%w: invoice number %s already exists", httpx.ErrDuplicate, inv.Number)
		}
	}
	s.repo.nextID++
	inv.ID = s.repo.nextID
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	s.repo.invoices[inv.ID] = inv
	return inv.ID, nil
}

func (s *memoryStore) Update(_ context.Context, inv Invoice) error {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	current, ok := s.repo.invoices[inv.ID]
	if !ok || !s.owns(current) || !s.owns(inv) {
		return fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, inv.ID)
	}
	for id, existing := range s.repo.invoices {
		if id != inv.ID && existing.Number == inv.Number {
			return fmt.Errorf("%w: invoice number %s already exists", httpx.ErrDuplicate, inv.Number)
		}
	}
	inv.Status = current.Status
	inv.PaidDate = current.PaidDate
	inv.CreatedAt = current.CreatedAt
	inv.UpdatedAt = time.Now()
	s.repo.invoices[inv.ID] = inv
	return nil
}

func (s *memoryStore) ReplaceItems(_ context.Context, invoiceID int64, lines []money.Line) error {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	if inv, ok := s.repo.invoices[invoiceID]; !ok || !s.owns(inv) {
		return fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, invoiceID)
	}
	delete(s.repo.items, invoiceID)
	if s.repo.failItems != nil {
		return s.repo.failItems
	}
	for i, line := range lines {
		s.repo.nextItemID++
		s.repo.items[invoiceID] = append(s.repo.items[invoiceID], LineItem{
			ID:          s.repo.nextItemID,
			InvoiceID:   invoiceID,
			Position:    i,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
		})
	}
	return nil
}

func (s *memoryStore) SetStatus(_ context.Context, id int64, status Status, paidDate *shared.Date) error {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	inv, ok := s.repo.invoices[id]
	if !ok || !s.owns(inv) {
		return fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, id)
	}
	inv.Status = status
	inv.PaidDate = paidDate
	s.repo.invoices[id] = inv
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id int64) error {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	inv, ok := s.repo.invoices[id]
	if !ok || !s.owns(inv) {
		return fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, id)
	}
	delete(s.repo.invoices, id)
	delete(s.repo.items, id)
	return nil
}

type countingNotifier struct {
	mu    sync.Mutex
	calls map[string]int
}

func (n *countingNotifier) NotifyChange(_ context.Context, owner shared.Owner) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.calls == nil {
		n.calls = make(map[string]int)
	}
	n.calls[owner.ID()]++
}

var _ Repository = (*memoryRepo)(nil)
