package insights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Observer records the outcome of analysis requests.
type Observer interface {
	ObserveInsight(insightType, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveInsight(string, string) {}

// Outcome labels reported to the Observer.
const (
	OutcomeSuccess       = "success"
	OutcomeUpstreamError = "upstream_error"
	OutcomeStoreError    = "store_error"
)

// Service coordinates analysis generation.
type Service struct {
	repo      Repository
	generator TextGenerator
	model     string
	logger    *slog.Logger
	observer  Observer
}

// NewService constructs a Service instance.
func NewService(repo Repository, generator TextGenerator, model string, logger *slog.Logger) *Service {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, generator: generator, model: model, logger: logger, observer: nopObserver{}}
}

// WithObserver attaches an outcome observer.
func (s *Service) WithObserver(o Observer) *Service {
	if o != nil {
		s.observer = o
	}
	return s
}

// Model returns the configured model identifier.
func (s *Service) Model() string {
	return s.model
}

// Analyze reads the owner's data, asks the provider for an analysis and keeps
// the answer. No transaction is open while the provider runs, and a provider
// failure stores nothing.
func (s *Service) Analyze(ctx context.Context, owner shared.Owner, t Type) (Result, error) {
	t = Type(strings.TrimSpace(string(t)))
	if !t.Valid() {
		return Result{}, fmt.Errorf("%w: unknown insight_type %q", httpx.ErrValidation, t)
	}
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return Result{}, err
	}

	data, err := BuildContext(ctx, store, t)
	if err != nil {
		return Result{}, err
	}

	if s.generator == nil {
		s.observer.ObserveInsight(string(t), OutcomeUpstreamError)
		return Result{}, httpx.Upstream("", ErrMissingAPIKey)
	}
	content, err := s.generator.Generate(ctx, s.model, Prompt(t, data))
	if err != nil {
		s.observer.ObserveInsight(string(t), OutcomeUpstreamError)
		s.logger.Warn("insight generation failed",
			slog.String("owner_id", owner.ID()),
			slog.String("insight_type", string(t)),
			slog.Any("error", err))
		if !errors.Is(err, httpx.ErrUpstream) {
			err = httpx.Upstream("", err)
		}
		return Result{}, err
	}

	saved, err := store.Save(ctx, Insight{Type: t, Content: content, Model: s.model})
	if err != nil {
		s.observer.ObserveInsight(string(t), OutcomeStoreError)
		return Result{}, err
	}
	s.observer.ObserveInsight(string(t), OutcomeSuccess)
	s.logger.Info("insight generated",
		slog.String("owner_id", owner.ID()),
		slog.String("insight_type", string(t)),
		slog.Int64("insight_id", saved.ID),
		slog.Int("content_length", len(content)))
	return Result{ID: saved.ID, Content: saved.Content}, nil
}

// List returns the owner's insights, newest first.
func (s *Service) List(ctx context.Context, owner shared.Owner) ([]Insight, error) {
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return nil, err
	}
	return store.List(ctx)
}

// Get returns one of the owner's insights.
func (s *Service) Get(ctx context.Context, owner shared.Owner, id int64) (*Insight, error) {
	store, err := s.repo.ForOwner(owner)
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, id)
}
