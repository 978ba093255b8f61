package insightshttp

import "github.com/go-chi/chi/v5"

// MountRoutes registers the insight pages under the current router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/insights", h.handleList)
	r.Get("/insights/{id}", h.handleDetail)
	r.Post("/api/insights/analyze", h.handleAnalyze)
}
