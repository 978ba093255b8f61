package billing_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoice-manager/invoice-manager/internal/billing"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

type fakeCheckout struct {
	url string
	err error
	got billing.CheckoutRequest
}

func (f *fakeCheckout) CreateCheckout(ctx context.Context, req billing.CheckoutRequest) (string, error) {
	f.got = req
	return f.url, f.err
}

type fakeEntitlements map[string]bool

func (f fakeEntitlements) IsActive(ctx context.Context, ownerID string) (bool, error) {
	if ownerID == "broken" {
		return false, errors.New("db down")
	}
	return f[ownerID], nil
}

func newRouter(h *billing.Handler) http.Handler {
	r := chi.NewRouter()
	h.MountPublic(r)
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if id := r.Header.Get("X-User"); id != "" {
					r = r.WithContext(shared.ContextWithPrincipal(r.Context(), shared.Principal{ID: id, Email: id + "@example.com"}))
				}
				next.ServeHTTP(w, r)
			})
		})
		h.MountRoutes(r)
	})
	return r
}

func subscribe(t *testing.T, h http.Handler, user string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/subscribe", nil)
	if user != "" {
		req.Header.Set("X-User", user)
	}
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func TestPricingIsPublic(t *testing.T) {
	plans, err := billing.LoadPlans()
	require.NoError(t, err)
	r := newRouter(billing.NewHandler(nil, plans, nil, ""))

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/pricing", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"code":"pro"`)
}

func TestSubscribeRedirectsToCheckout(t *testing.T) {
	checkout := &fakeCheckout{url: "https://checkout.example/cs_1"}
	r := newRouter(billing.NewHandler(nil, nil, checkout, "price_123"))

	res := subscribe(t, r, "42")
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "https://checkout.example/cs_1", res.Header().Get("Location"))
	assert.Equal(t, billing.CheckoutRequest{OwnerID: "42", Email: "42@example.com", PriceID: "price_123"}, checkout.got)
}

func TestSubscribeFailures(t *testing.T) {
	res := subscribe(t, newRouter(billing.NewHandler(nil, nil, &fakeCheckout{}, "price_123")), "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = subscribe(t, newRouter(billing.NewHandler(nil, nil, &fakeCheckout{}, "")), "42")
	assert.Equal(t, http.StatusBadGateway, res.Code)
	assert.Contains(t, res.Body.String(), "STRIPE_PRICE_ID not configured")

	long := strings.Repeat("x", 500)
	res = subscribe(t, newRouter(billing.NewHandler(nil, nil, &fakeCheckout{err: errors.New(long)}, "price_123")), "42")
	assert.Equal(t, http.StatusBadGateway, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Checkout failed: ")
	assert.Contains(t, body, strings.Repeat("x", 200))
	assert.NotContains(t, body, strings.Repeat("x", 201))
}

func TestRequireSubscription(t *testing.T) {
	gate := billing.RequireSubscription(fakeEntitlements{"paid": true})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	cases := map[string]int{
		"":       http.StatusUnauthorized,
		"paid":   http.StatusNoContent,
		"unpaid": http.StatusPaymentRequired,
		"broken": http.StatusInternalServerError,
	}
	for owner, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		if owner != "" {
			req = req.WithContext(shared.ContextWithPrincipal(req.Context(), shared.Principal{ID: owner}))
		}
		res := httptest.NewRecorder()
		gate(next).ServeHTTP(res, req)
		assert.Equal(t, want, res.Code, "owner %q", owner)
	}
}
