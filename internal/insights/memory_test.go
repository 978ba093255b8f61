package insights

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

type memoryRepo struct {
	mu       sync.Mutex
	invoices map[string][]InvoiceRecord
	expenses map[string][]ExpenseRecord
	clients  map[string][]ClientRecord
	saved    []Insight
	limits   []int
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		invoices: make(map[string][]InvoiceRecord),
		expenses: make(map[string][]ExpenseRecord),
		clients:  make(map[string][]ClientRecord),
	}
}

func (r *memoryRepo) ForOwner(owner shared.Owner) (Store, error) {
	if !owner.Valid() {
		return nil, shared.ErrOwnerRequired
	}
	return &memoryStore{repo: r, owner: owner.ID()}, nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

type memoryStore struct {
	repo  *memoryRepo
	owner string
}

func (s *memoryStore) RecentInvoices(_ context.Context, limit int) ([]InvoiceRecord, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	s.repo.limits = append(s.repo.limits, limit)
	list := append([]InvoiceRecord(nil), s.repo.invoices[s.owner]...)
	sort.SliceStable(list, func(i, j int) bool { return list[i].IssueDate > list[j].IssueDate })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *memoryStore) RecentExpenses(_ context.Context, limit int) ([]ExpenseRecord, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	s.repo.limits = append(s.repo.limits, limit)
	list := append([]ExpenseRecord(nil), s.repo.expenses[s.owner]...)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date > list[j].Date })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *memoryStore) ClientsWithTotals(context.Context) ([]ClientRecord, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	return s.repo.clients[s.owner], nil
}

func (s *memoryStore) Save(_ context.Context, in Insight) (Insight, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	s.repo.nextID++
	in.ID = s.repo.nextID
	in.RequestedBy = s.owner
	in.GeneratedAt = time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(in.ID) * time.Minute)
	s.repo.saved = append(s.repo.saved, in)
	return in, nil
}

func (s *memoryStore) List(context.Context) ([]Insight, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	var out []Insight
	for i := len(s.repo.saved) - 1; i >= 0; i-- {
		if s.repo.saved[i].RequestedBy == s.owner {
			out = append(out, s.repo.saved[i])
		}
	}
	return out, nil
}

func (s *memoryStore) Get(_ context.Context, id int64) (*Insight, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	for _, in := range s.repo.saved {
		if in.ID == id && in.RequestedBy == s.owner {
			found := in
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: insight %d", httpx.ErrNotFound, id)
}

type stubGenerator struct {
	text    string
	err     error
	prompts []string
	models  []string
}

func (g *stubGenerator) Generate(_ context.Context, model, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	g.models = append(g.models, model)
	return g.text, g.err
}

type countingObserver struct {
	outcomes map[string]int
}

func (o *countingObserver) ObserveInsight(t, outcome string) {
	if o.outcomes == nil {
		o.outcomes = make(map[string]int)
	}
	o.outcomes[t+"/"+outcome]++
}
