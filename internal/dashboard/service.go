package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Service serves dashboards, caching them per owner and day until the
// owner's data changes.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
	now    func() time.Time
	group  singleflight.Group
}

// NewService builds Service instance. A nil cache computes every request.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Dashboard returns the owner's dashboard as of now. Concurrent requests for
// the same owner share one computation.
func (s *Service) Dashboard(ctx context.Context, owner shared.Owner) (Dashboard, error) {
	if !owner.Valid() {
		return Dashboard{}, shared.ErrOwnerRequired
	}
	now := s.now()
	day := shared.DateOf(now).String()

	v, err, _ := s.group.Do(flightKey(owner, day), func() (any, error) {
		return s.load(ctx, owner, now, day)
	})
	if err != nil {
		return Dashboard{}, err
	}
	return v.(Dashboard), nil
}

func (s *Service) load(ctx context.Context, owner shared.Owner, now time.Time, day string) (Dashboard, error) {
	compute := func(ctx context.Context) (any, error) {
		snap, err := s.repo.Snapshot(ctx, owner, LoadSince(now))
		if err != nil {
			return nil, err
		}
		return Build(now, snap), nil
	}
	if s.cache == nil {
		v, err := compute(ctx)
		if err != nil {
			return Dashboard{}, err
		}
		return v.(Dashboard), nil
	}

	var loadErr error
	loader := func(ctx context.Context) (any, error) {
		v, err := compute(ctx)
		loadErr = err
		return v, err
	}

	var out Dashboard
	key, err := s.cache.BuildKey(ctx, owner, day)
	if err == nil {
		err = s.cache.FetchJSON(ctx, key, &out, loader)
	}
	if loadErr != nil {
		return Dashboard{}, loadErr
	}
	if err != nil {
		s.logger.Warn("dashboard cache unavailable", slog.String("owner_id", owner.ID()), slog.Any("error", err))
		v, err := compute(ctx)
		if err != nil {
			return Dashboard{}, err
		}
		return v.(Dashboard), nil
	}
	return out, nil
}

// NotifyChange invalidates the owner's cached dashboards.
func (s *Service) NotifyChange(ctx context.Context, owner shared.Owner) {
	if !owner.Valid() {
		return
	}
	if err := s.cache.Bump(ctx, owner); err != nil {
		s.logger.Warn("dashboard cache bump failed", slog.String("owner_id", owner.ID()), slog.Any("error", err))
	}
	s.Forget(owner.ID())
}

// Forget drops any in-flight computation for the owner so the next request
// starts fresh.
func (s *Service) Forget(ownerID string) {
	owner, err := shared.NewOwner(ownerID)
	if err != nil {
		return
	}
	s.group.Forget(flightKey(owner, shared.DateOf(s.now()).String()))
}

// Listen forgets in-flight computations when other instances report changes.
func (s *Service) Listen(ctx context.Context) error {
	return s.cache.ListenForInvalidation(ctx, s.Forget)
}

func flightKey(owner shared.Owner, day string) string {
	return owner.ID() + "|" + day
}

var _ shared.ChangeNotifier = (*Service)(nil)
