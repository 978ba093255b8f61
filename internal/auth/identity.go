package auth

import (
	"net/http"
	"strconv"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// Identity resolves the caller of a request.
type Identity interface {
	Authenticate(r *http.Request) (shared.Principal, error)
}

// SessionIdentity authenticates through the user bound to the request session.
type SessionIdentity struct {
	service *Service
}

// NewSessionIdentity constructs a SessionIdentity.
func NewSessionIdentity(service *Service) *SessionIdentity {
	return &SessionIdentity{service: service}
}

// Authenticate implements Identity.
func (i *SessionIdentity) Authenticate(r *http.Request) (shared.Principal, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		return shared.Principal{}, httpx.ErrUnauthorized
	}
	id, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil {
		return shared.Principal{}, httpx.ErrUnauthorized
	}
	user, err := i.service.Lookup(r.Context(), id)
	if err != nil {
		return shared.Principal{}, err
	}
	return user.Principal(), nil
}

// RequireAuth rejects requests without an authenticated principal and stores
// the principal in the request context.
func RequireAuth(identity Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := identity.Authenticate(r)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			ctx := shared.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var _ Identity = (*SessionIdentity)(nil)
