package expenses

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/invoice-manager/invoice-manager/internal/money"
	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Service handles expense business logic.
type Service struct {
	repo     Repository
	notifier shared.ChangeNotifier
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewService builds Service instance.
func NewService(repo Repository, notifier shared.ChangeNotifier, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, notifier: notifier, logger: logger, validate: validator.New(), now: time.Now}
}

// List returns the owner's expenses, newest first, optionally narrowed to a
// category, together with their total.
func (s *Service) List(ctx context.Context, owner shared.Owner, category Category) (Listing, error) {
	if category != "" && !category.Valid() {
		return Listing{}, fmt.Errorf("%w: unknown category %q", httpx.ErrValidation, category)
	}
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return Listing{}, err
	}
	list, err := store.List(ctx, category)
	if err != nil {
		return Listing{}, err
	}
	amounts := make([]decimal.Decimal, 0, len(list))
	for _, e := range list {
		amounts = append(amounts, e.Amount)
	}
	if list == nil {
		list = []Expense{}
	}
	return Listing{Expenses: list, TotalAmount: money.Sum(amounts...), Categories: Categories, Selected: category}, nil
}

// Get returns one expense.
func (s *Service) Get(ctx context.Context, owner shared.Owner, id int64) (*Expense, error) {
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, id)
}

// Create records a new expense.
func (s *Service) Create(ctx context.Context, owner shared.Owner, in Input) (*Expense, error) {
	in, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return nil, err
	}
	e, err := store.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyChange(ctx, owner)
	return e, nil
}

// Update overwrites an expense.
func (s *Service) Update(ctx context.Context, owner shared.Owner, id int64, in Input) (*Expense, error) {
	in, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return nil, err
	}
	e, err := store.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyChange(ctx, owner)
	return e, nil
}

// Delete removes an expense.
func (s *Service) Delete(ctx context.Context, owner shared.Owner, id int64) error {
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.NotifyChange(ctx, owner)
	return nil
}

func (s *Service) prepare(in Input) (Input, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Vendor = strings.TrimSpace(in.Vendor)
	in.ReceiptRef = strings.TrimSpace(in.ReceiptRef)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if err := s.validate.Struct(in); err != nil {
		return Input{}, httpx.Invalid(err)
	}
	if in.Category == "" {
		in.Category = CategoryOther
	}
	if !in.Category.Valid() {
		return Input{}, fmt.Errorf("%w: unknown category %q", httpx.ErrValidation, in.Category)
	}
	if !in.Amount.IsPositive() {
		return Input{}, fmt.Errorf("%w: amount must be greater than zero", httpx.ErrValidation)
	}
	if in.Currency == "" {
		in.Currency = money.DefaultCurrency
	}
	if in.Date.IsZero() {
		in.Date = shared.DateOf(s.now())
	}
	return in, nil
}
