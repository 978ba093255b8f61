package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoice-manager/invoice-manager/internal/shared"
)

func TestCSRFTokenLifecycle(t *testing.T) {
	sm, _ := newSessionManager(t)
	ctx := context.Background()
	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	csrf := shared.NewCSRFManager("secret")
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, "anything"), shared.ErrCSRFTokenMissing)

	token, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	again, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.NoError(t, csrf.VerifyToken(ctx, sess, token))
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, token+"x"), shared.ErrCSRFTokenMismatch)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, ""), shared.ErrCSRFTokenMissing)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, nil, token), shared.ErrCSRFTokenMissing)
}

func TestCSRFVerifyRequest(t *testing.T) {
	sm, _ := newSessionManager(t)
	ctx := context.Background()
	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	csrf := shared.NewCSRFManager("secret")
	token, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)

	assert.NoError(t, csrf.VerifyRequest(httptest.NewRequest(http.MethodGet, "/invoices", nil), nil))

	post := httptest.NewRequest(http.MethodPost, "/invoices", nil)
	assert.ErrorIs(t, csrf.VerifyRequest(post, sess), shared.ErrCSRFTokenMissing)

	post.Header.Set(shared.CSRFHeader, " "+token+" ")
	assert.NoError(t, csrf.VerifyRequest(post, sess))

	sm.Rotate(sess)
	assert.NoError(t, csrf.VerifyRequest(post, sess), "token survives id rotation")

	del := httptest.NewRequest(http.MethodDelete, "/clients/1", nil)
	del.Header.Set(shared.CSRFHeader, "forged")
	assert.ErrorIs(t, csrf.VerifyRequest(del, sess), shared.ErrCSRFTokenMismatch)
}
