package billing

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Subscription states stored in the subscriptions table.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Entitlements answers whether an owner holds an active subscription.
type Entitlements interface {
	IsActive(ctx context.Context, ownerID string) (bool, error)
}

// Subscriptions is the Postgres backed entitlement store.
type Subscriptions struct {
	pool *pgxpool.Pool
}

// NewSubscriptions constructs a Subscriptions store.
func NewSubscriptions(pool *pgxpool.Pool) *Subscriptions {
	return &Subscriptions{pool: pool}
}

// IsActive implements Entitlements.
func (s *Subscriptions) IsActive(ctx context.Context, ownerID string) (bool, error) {
	var status string
	err := s.pool.QueryRow(ctx, `SELECT status FROM subscriptions WHERE user_id = $1`, ownerID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("billing: load subscription: %w", err)
	}
	return status == StatusActive, nil
}

// Activate marks the owner's subscription active on plan.
func (s *Subscriptions) Activate(ctx context.Context, ownerID, plan, customerRef string) error {
	return s.set(ctx, ownerID, StatusActive, plan, customerRef)
}

// Deactivate marks the owner's subscription inactive.
func (s *Subscriptions) Deactivate(ctx context.Context, ownerID string) error {
	return s.set(ctx, ownerID, StatusInactive, "", "")
}

func (s *Subscriptions) set(ctx context.Context, ownerID, status, plan, customerRef string) error {
	if _, err := shared.NewOwner(ownerID); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO subscriptions (user_id, status, plan_code, customer_ref, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			status       = EXCLUDED.status,
			plan_code    = COALESCE(EXCLUDED.plan_code, subscriptions.plan_code),
			customer_ref = COALESCE(EXCLUDED.customer_ref, subscriptions.customer_ref),
			updated_at   = NOW()`,
		ownerID, status, plan, customerRef)
	if err != nil {
		return fmt.Errorf("billing: set subscription: %w", err)
	}
	return nil
}

// RequireSubscription rejects requests from owners without an active
// subscription with 402 Payment Required. It must run after auth.RequireAuth.
func RequireSubscription(entitlements Entitlements) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner, err := shared.OwnerFromContext(r.Context())
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			active, err := entitlements.IsActive(r.Context(), owner.ID())
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			if !active {
				httpx.RespondError(w, httpx.ErrPaymentRequired)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var _ Entitlements = (*Subscriptions)(nil)
