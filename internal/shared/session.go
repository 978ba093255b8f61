package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionManager keeps cookie sessions in Redis. Signed-in sessions slide:
// once less than half of the TTL is left, the next request renews them.
type SessionManager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

// Session is the per-request view of a stored session.
type Session struct {
	ID              string
	AuthenticatedAt time.Time

	values    map[string]string
	userID    string
	previous  string
	isNew     bool
	dirty     bool
	destroyed bool
}

type storedSession struct {
	Values          map[string]string `json:"values,omitempty"`
	UserID          string            `json:"user_id,omitempty"`
	AuthenticatedAt time.Time         `json:"authenticated_at,omitempty"`
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, cookieName string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{client: client, cookieName: cookieName, ttl: ttl, secure: secure}
}

// Load returns the session named by the request cookie, or a fresh one when
// the cookie is absent or points at nothing. A client supplied id is never
// adopted.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && cookie.Value == "") {
		return sm.fresh(), nil
	}
	if err != nil {
		return nil, err
	}

	key := sm.key(cookie.Value)
	pipe := sm.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	raw, err := getCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return sm.fresh(), nil
	}
	if err != nil {
		return nil, err
	}

	var stored storedSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	sess := &Session{
		ID:              cookie.Value,
		AuthenticatedAt: stored.AuthenticatedAt,
		values:          stored.Values,
		userID:          stored.UserID,
	}
	if sess.userID != "" && ttlCmd.Val() > 0 && ttlCmd.Val() < sm.ttl/2 {
		sess.dirty = true
	}
	return sess, nil
}

// Commit writes the session back and sets or clears the cookie. Rotation
// deletes the previous key in the same Redis transaction.
func (sm *SessionManager) Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return nil
	}
	if sess.destroyed {
		if err := sm.client.Del(ctx, sm.key(sess.ID)).Err(); err != nil {
			return err
		}
		http.SetCookie(w, sm.cookie("", -1))
		return nil
	}
	if !sess.dirty && sess.previous == "" {
		return nil
	}

	data, err := json.Marshal(storedSession{Values: sess.values, UserID: sess.userID, AuthenticatedAt: sess.AuthenticatedAt})
	if err != nil {
		return err
	}
	_, err = sm.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if sess.previous != "" {
			pipe.Del(ctx, sm.key(sess.previous))
		}
		pipe.Set(ctx, sm.key(sess.ID), data, sm.ttl)
		return nil
	})
	if err != nil {
		return err
	}
	sess.previous = ""
	sess.dirty = false
	sess.isNew = false
	http.SetCookie(w, sm.cookie(sess.ID, int(sm.ttl.Seconds())))
	return nil
}

// Destroy marks the session for deletion on commit.
func (sm *SessionManager) Destroy(sess *Session) {
	if sess != nil {
		sess.destroyed = true
	}
}

// Rotate gives the session a new id. The old id stops working on commit.
func (sm *SessionManager) Rotate(sess *Session) {
	if sess == nil {
		return
	}
	if !sess.isNew && sess.previous == "" {
		sess.previous = sess.ID
	}
	sess.ID = uuid.NewString()
	sess.dirty = true
}

// TTL exposes the configured session lifetime.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// CookieName returns the session cookie name.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

// Set stores a session value.
func (s *Session) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	s.dirty = true
}

// Get returns a session value or "".
func (s *Session) Get(key string) string {
	return s.values[key]
}

// SetUser signs the session in as user id, or out when id is empty.
func (s *Session) SetUser(id string) {
	s.userID = id
	if id == "" {
		s.AuthenticatedAt = time.Time{}
	} else {
		s.AuthenticatedAt = time.Now().UTC()
	}
	s.dirty = true
}

// User returns the signed-in user id, or "".
func (s *Session) User() string {
	return s.userID
}

func (sm *SessionManager) fresh() *Session {
	return &Session{ID: uuid.NewString(), values: make(map[string]string), isNew: true}
}

func (sm *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sm.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (sm *SessionManager) key(id string) string {
	return sessionKeyPrefix + id
}
