package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/invoice-manager/invoice-manager/internal/auth"
	"github.com/invoice-manager/invoice-manager/internal/billing"
	"github.com/invoice-manager/invoice-manager/internal/clients"
	"github.com/invoice-manager/invoice-manager/internal/dashboard"
	"github.com/invoice-manager/invoice-manager/internal/expenses"
	insightshttp "github.com/invoice-manager/invoice-manager/internal/insights/http"
	"github.com/invoice-manager/invoice-manager/internal/invoices"
	"github.com/invoice-manager/invoice-manager/internal/observability"
	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	Identity         auth.Identity
	Entitlements     billing.Entitlements
	AuthHandler      *auth.Handler
	BillingHandler   *billing.Handler
	DashboardHandler *dashboard.Handler
	ClientsHandler   *clients.Handler
	InvoicesHandler  *invoices.Handler
	ExpensesHandler  *expenses.Handler
	InsightsHandler  *insightshttp.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults. Core
// routes require an authenticated principal with an active subscription.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.RespondError(w, httpx.ErrNotFound)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.BillingHandler != nil {
		params.BillingHandler.MountPublic(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(params.Identity))
		if params.BillingHandler != nil {
			params.BillingHandler.MountRoutes(r)
		}

		r.Group(func(r chi.Router) {
			r.Use(billing.RequireSubscription(params.Entitlements))
			if params.DashboardHandler != nil {
				r.Route("/dashboard", params.DashboardHandler.MountRoutes)
			}
			if params.ClientsHandler != nil {
				r.Route("/clients", params.ClientsHandler.MountRoutes)
			}
			if params.InvoicesHandler != nil {
				r.Route("/invoices", params.InvoicesHandler.MountRoutes)
			}
			if params.ExpensesHandler != nil {
				r.Route("/expenses", params.ExpensesHandler.MountRoutes)
			}
			if params.InsightsHandler != nil {
				params.InsightsHandler.MountRoutes(r)
			}
		})
	})

	return r
}
