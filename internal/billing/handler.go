package billing

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Handler serves the pricing catalog and starts checkouts.
type Handler struct {
	logger   *slog.Logger
	plans    []Plan
	checkout CheckoutProvider
	priceID  string
}

// NewHandler constructs a billing Handler. checkout may be nil when billing
// is not configured.
func NewHandler(logger *slog.Logger, plans []Plan, checkout CheckoutProvider, priceID string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, plans: plans, checkout: checkout, priceID: priceID}
}

// MountPublic registers routes that need no identity.
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/pricing", h.handlePricing)
}

// MountRoutes registers routes that need an authenticated principal.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/subscribe", h.handleSubscribe)
}

func (h *Handler) handlePricing(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"plans": h.plans})
}

func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	if h.checkout == nil {
		httpx.RespondError(w, fmt.Errorf("%w: Billing not configured", httpx.ErrUpstream))
		return
	}
	if h.priceID == "" {
		httpx.RespondError(w, fmt.Errorf("%w: STRIPE_PRICE_ID not configured", httpx.ErrUpstream))
		return
	}
	url, err := h.checkout.CreateCheckout(r.Context(), CheckoutRequest{
		OwnerID: principal.ID,
		Email:   principal.Email,
		PriceID: h.priceID,
	})
	if err != nil {
		h.logger.Warn("create checkout", slog.String("owner_id", principal.ID), slog.Any("error", err))
		httpx.RespondError(w, httpx.Upstream("Checkout failed", err))
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
