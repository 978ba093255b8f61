package insightshttp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/invoice-manager/invoice-manager/internal/insights"
	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Service exposes the business logic required by the handler.
type Service interface {
	Analyze(ctx context.Context, owner shared.Owner, t insights.Type) (insights.Result, error)
	List(ctx context.Context, owner shared.Owner) ([]insights.Insight, error)
	Get(ctx context.Context, owner shared.Owner, id int64) (*insights.Insight, error)
}

// Handler serves insight endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// NewHandler creates the insights handler.
func NewHandler(logger *slog.Logger, service Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

type analyzeRequest struct {
	InsightType string `json:"insight_type"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	owner, err := shared.OwnerFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	list, err := h.service.List(r.Context(), owner)
	if err != nil {
		h.logger.Error("list insights", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []insights.Insight{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"insights": list, "types": insights.Types})
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	owner, err := shared.OwnerFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	insight, err := h.service.Get(r.Context(), owner, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, insight)
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	owner, err := shared.OwnerFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req analyzeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	result, err := h.service.Analyze(r.Context(), owner, insights.Type(req.InsightType))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
