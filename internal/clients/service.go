package clients

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Service handles client business logic.
type Service struct {
	repo     Repository
	notifier shared.ChangeNotifier
	logger   *slog.Logger
	validate *validator.Validate
}

// NewService builds Service instance.
func NewService(repo Repository, notifier shared.ChangeNotifier, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, notifier: notifier, logger: logger, validate: validator.New()}
}

// List returns the owner's clients with invoice totals, ordered by name.
func (s *Service) List(ctx context.Context, owner shared.Owner) ([]Summary, error) {
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return nil, err
	}
	return store.List(ctx)
}

// Detail returns a client with its invoices and paid revenue.
func (s *Service) Detail(ctx context.Context, owner shared.Owner, id int64) (*Detail, error) {
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return nil, err
	}
	client, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	refs, err := store.Invoices(ctx, id)
	if err != nil {
		return nil, err
	}
	revenue := decimal.Zero
	for _, ref := range refs {
		if ref.Status == "paid" {
			revenue = revenue.Add(ref.Total)
		}
	}
	if refs == nil {
		refs = []InvoiceRef{}
	}
	return &Detail{Client: *client, Invoices: refs, TotalRevenue: revenue}, nil
}

// Create stores a new client.
func (s *Service) Create(ctx context.Context, owner shared.Owner, in Input) (*Client, error) {
	in = normalize(in)
	if err := s.validate.Struct(in); err != nil {
		return nil, httpx.Invalid(err)
	}
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return nil, err
	}
	client, err := store.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("client created", slog.String("owner_id", owner.ID()), slog.Int64("client_id", client.ID))
	s.notifier.NotifyChange(ctx, owner)
	return client, nil
}

// Update overwrites a client's fields.
func (s *Service) Update(ctx context.Context, owner shared.Owner, id int64, in Input) (*Client, error) {
	in = normalize(in)
	if err := s.validate.Struct(in); err != nil {
		return nil, httpx.Invalid(err)
	}
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return nil, err
	}
	client, err := store.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyChange(ctx, owner)
	return client, nil
}

// Delete removes a client together with its invoices.
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

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.TaxID = strings.TrimSpace(in.TaxID)
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}
