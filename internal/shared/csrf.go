package shared

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	// CSRFSessionKey is the session value holding the token.
	CSRFSessionKey = "csrf_token"
	// CSRFHeader carries the token on unsafe requests.
	CSRFHeader = "X-CSRF-Token"
)

// CSRFManager mints one anti-forgery token per session and checks it on
// state-changing requests.
type CSRFManager struct {
	secret []byte
}

// NewCSRFManager returns a CSRFManager keyed by secret.
func NewCSRFManager(secret string) *CSRFManager {
	return &CSRFManager{secret: []byte(secret)}
}

// EnsureToken returns the session's token, minting it on first use. The
// token survives session id rotation because it lives in the session values.
func (m *CSRFManager) EnsureToken(_ context.Context, sess *Session) (string, error) {
	if sess == nil {
		return "", ErrCSRFTokenMissing
	}
	if token := sess.Get(CSRFSessionKey); token != "" {
		return token, nil
	}
	token := m.mint(sess.ID)
	sess.Set(CSRFSessionKey, token)
	return token, nil
}

// VerifyToken compares token with the one stored in the session.
func (m *CSRFManager) VerifyToken(_ context.Context, sess *Session, token string) error {
	token = strings.TrimSpace(token)
	if sess == nil || token == "" {
		return ErrCSRFTokenMissing
	}
	expected := sess.Get(CSRFSessionKey)
	if expected == "" {
		return ErrCSRFTokenMissing
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) != 1 {
		return ErrCSRFTokenMismatch
	}
	return nil
}

// VerifyRequest checks the CSRFHeader of unsafe requests. Safe methods pass
// without a token.
func (m *CSRFManager) VerifyRequest(r *http.Request, sess *Session) error {
	if SafeMethod(r.Method) {
		return nil
	}
	return m.VerifyToken(r.Context(), sess, r.Header.Get(CSRFHeader))
}

// SafeMethod reports whether method cannot change server state.
func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// mint binds a random nonce to the session id it was issued for.
func (m *CSRFManager) mint(sessionID string) string {
	nonce := uuid.New()
	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write([]byte(sessionID))
	_, _ = mac.Write(nonce[:])
	return base64.RawURLEncoding.EncodeToString(append(nonce[:], mac.Sum(nil)...))
}
