package shared

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
)

func TestNewOwner(t *testing.T) {
	_, err := NewOwner("   ")
	assert.ErrorIs(t, err, ErrOwnerRequired)
	assert.True(t, errors.Is(err, httpx.ErrUnauthorized))

	owner, err := NewOwner(" user-1 ")
	require.NoError(t, err)
	assert.Equal(t, "user-1", owner.ID())
	assert.True(t, owner.Valid())
	assert.False(t, Owner{}.Valid())
}

func TestOwnerFromContext(t *testing.T) {
	_, err := OwnerFromContext(context.Background())
	assert.ErrorIs(t, err, ErrOwnerRequired)

	ctx := ContextWithPrincipal(context.Background(), Principal{ID: "9", Email: "a@b.io"})
	owner, err := OwnerFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "9", owner.ID())
}
