package invoices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoice-manager/invoice-manager/internal/money"
	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Service handles invoice business logic.
type Service struct {
	repo     Repository
	notifier shared.ChangeNotifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds Service instance. A nil notifier disables change notifications.
func NewService(repo Repository, notifier shared.ChangeNotifier, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, notifier: notifier, logger: logger, now: time.Now}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) today() shared.Date {
	return shared.DateOf(s.now())
}

// NewInvoiceForm is what an empty invoice form is prefilled with.
type NewInvoiceForm struct {
	NextNumber string      `json:"next_invoice_number"`
	Today      shared.Date `json:"today"`
}

// SuggestNumber proposes the next invoice number for the current year. The
// sequence is global because invoice numbers are unique system-wide.
func (s *Service) SuggestNumber(ctx context.Context) (NewInvoiceForm, error) {
	now := s.now()
	existing, err := s.repo.NumbersWithPrefix(ctx, NumberPrefix(now.Year()))
	if err != nil {
		return NewInvoiceForm{}, err
	}
	return NewInvoiceForm{NextNumber: NextNumber(now, existing), Today: shared.DateOf(now)}, nil
}

// Preview prices lines without persisting anything.
func (s *Service) Preview(lines []LineDraft, taxRate decimal.Decimal) money.Totals {
	return money.Calculate(toLineInputs(lines), taxRate)
}

// List returns the owner's invoices, newest issue date first.
func (s *Service) List(ctx context.Context, owner shared.Owner, filter ListFilter) ([]Invoice, error) {
	if filter.Status != "" {
		if _, ok := ParseStatus(string(filter.Status)); !ok {
			return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, filter.Status)
		}
	}
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return nil, err
	}
	return store.List(ctx, filter)
}

// Get returns one invoice with its line items.
func (s *Service) Get(ctx context.Context, owner shared.Owner, id int64) (*Invoice, error) {
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, id)
}

// Create validates input, prices its lines and stores invoice and lines atomically.
func (s *Service) Create(ctx context.Context, owner shared.Owner, input Input) (*Invoice, error) {
	inv, lines, err := s.build(input)
	if err != nil {
		return nil, err
	}
	inv.Status = StatusDraft

	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return nil, err
	}

	var created *Invoice
	err = store.WithTx(ctx, func(ctx context.Context, tx Store) error {
		owned, err := tx.ClientOwned(ctx, inv.ClientID)
		if err != nil {
			return err
		}
		if !owned {
			return fmt.Errorf("%w: client %d", httpx.ErrNotFound, inv.ClientID)
		}
		id, err := tx.Create(ctx, inv)
		if err != nil {
			return err
		}
		if err := tx.ReplaceItems(ctx, id, lines); err != nil {
			return err
		}
		created, err = tx.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		slog.String("owner_id", owner.ID()),
		slog.Int64("invoice_id", created.ID),
		slog.String("invoice_number", created.Number))
	s.notifier.NotifyChange(ctx, owner)
	return created, nil
}

// Update applies a full edit: header fields are overwritten, every line item
// is replaced by the submitted set and totals are recomputed. Status and paid
// date are left as they are.
func (s *Service) Update(ctx context.Context, owner shared.Owner, id int64, input Input) (*Invoice, error) {
	inv, lines, err := s.build(input)
	if err != nil {
		return nil, err
	}
	inv.ID = id

	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return nil, err
	}

	var updated *Invoice
	err = store.WithTx(ctx, func(ctx context.Context, tx Store) error {
		if _, err := tx.Get(ctx, id); err != nil {
			return err
		}
		owned, err := tx.ClientOwned(ctx, inv.ClientID)
		if err != nil {
			return err
		}
		if !owned {
			return fmt.Errorf("%w: client %d", httpx.ErrNotFound, inv.ClientID)
		}
		if err := tx.Update(ctx, inv); err != nil {
			return err
		}
		if err := tx.ReplaceItems(ctx, id, lines); err != nil {
			return err
		}
		updated, err = tx.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyChange(ctx, owner)
	return updated, nil
}

// StatusResult reports the invoice after a status request and whether the
// requested label was applied.
type StatusResult struct {
	Invoice *Invoice `json:"invoice"`
	Applied bool     `json:"applied"`
}

// UpdateStatus moves an invoice to the labelled status. Unknown labels are
// ignored: the invoice is returned unchanged with Applied false.
func (s *Service) UpdateStatus(ctx context.Context, owner shared.Owner, id int64, label string) (StatusResult, error) {
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return StatusResult{}, err
	}

	var result StatusResult
	err = store.WithTx(ctx, func(ctx context.Context, tx Store) error {
		inv, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		result.Invoice = inv
		if !ApplyStatus(inv, strings.TrimSpace(label), s.today()) {
			return nil
		}
		result.Applied = true
		return tx.SetStatus(ctx, id, inv.Status, inv.PaidDate)
	})
	if err != nil {
		return StatusResult{}, err
	}
	if !result.Applied {
		s.logger.Warn("ignored unknown invoice status",
			slog.String("owner_id", owner.ID()),
			slog.Int64("invoice_id", id),
			slog.String("status", label))
		return result, nil
	}
	s.notifier.NotifyChange(ctx, owner)
	return result, nil
}

// Delete removes an invoice and its line items.
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

func (s *Service) build(input Input) (Invoice, []money.Line, error) {
	var problems []string
	number := strings.TrimSpace(input.Number)
	if number == "" {
		problems = append(problems, "invoice_number is required")
	}
	if input.ClientID <= 0 {
		problems = append(problems, "client_id is required")
	}
	if input.IssueDate.IsZero() {
		problems = append(problems, "issue_date is required")
	}
	if input.DueDate.IsZero() {
		problems = append(problems, "due_date is required")
	}
	if !input.IssueDate.IsZero() && !input.DueDate.IsZero() && input.DueDate.Before(input.IssueDate) {
		problems = append(problems, "due_date must not be before issue_date")
	}
	if input.TaxRate.IsNegative() {
		problems = append(problems, "tax_rate must not be negative")
	}
	if len(problems) > 0 {
		return Invoice{}, nil, fmt.Errorf("%w: %s", httpx.ErrValidation, strings.Join(problems, "; "))
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = money.DefaultCurrency
	}

	totals := money.Calculate(toLineInputs(input.Lines), input.TaxRate)
	return Invoice{
		ClientID:  input.ClientID,
		Number:    number,
		IssueDate: input.IssueDate,
		DueDate:   input.DueDate,
		Subtotal:  totals.Subtotal,
		TaxRate:   totals.TaxRate,
		TaxAmount: totals.TaxAmount,
		Total:     totals.Total,
		Currency:  currency,
		Notes:     strings.TrimSpace(input.Notes),
	}, totals.Lines, nil
}

func toLineInputs(lines []LineDraft) []money.LineInput {
	out := make([]money.LineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, money.LineInput{Description: l.Description, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return out
}

// IsConflict reports whether err is an invoice number collision.
func IsConflict(err error) bool {
	return errors.Is(err, httpx.ErrDuplicate)
}
