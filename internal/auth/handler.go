package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	identity       Identity
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validator      *validator.Validate
	onRegister     func(ctx context.Context, user *User)
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		identity:       NewSessionIdentity(service),
		sessionManager: sessions,
		csrfManager:    csrf,
		validator:      validator.New(),
	}
}

// OnRegister installs a hook that runs after a successful registration.
func (h *Handler) OnRegister(fn func(ctx context.Context, user *User)) *Handler {
	h.onRegister = fn
	return h
}

// Identity returns the identity provider backing this handler.
func (h *Handler) Identity() Identity {
	return h.identity
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/csrf", h.handleCSRF)
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.With(RequireAuth(h.identity)).Get("/me", h.handleMe)
}

type credentials struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type csrfResponse struct {
	Token string `json:"csrf_token"`
}

func (h *Handler) handleCSRF(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	token, err := h.csrfManager.EnsureToken(r.Context(), sess)
	if err != nil {
		h.logger.Error("ensure csrf token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, csrfResponse{Token: token})
}

func (h *Handler) decode(r *http.Request) (credentials, error) {
	var form credentials
	if err := httpx.DecodeJSON(r, &form); err != nil {
		return form, err
	}
	if err := h.validator.Struct(form); err != nil {
		return form, httpx.Invalid(err)
	}
	return form, nil
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	form, err := h.decode(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.service.Register(r.Context(), form.Email, form.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if h.onRegister != nil {
		h.onRegister(r.Context(), user)
	}
	h.signIn(w, r, user)
	httpx.JSON(w, http.StatusCreated, user.Principal())
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	form, err := h.decode(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	h.signIn(w, r, user)
	httpx.JSON(w, http.StatusOK, user.Principal())
}

// signIn binds user to a freshly rotated session id.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, user *User) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		return
	}
	h.sessionManager.Rotate(sess)
	sess.SetUser(strconv.FormatInt(user.ID, 10))
	expiresAt := time.Now().Add(h.sessionManager.TTL())
	if err := h.service.RegisterSession(r.Context(), sess.ID, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
		h.sessionManager.Destroy(sess)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, principal)
}
