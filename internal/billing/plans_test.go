package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPlans(t *testing.T) {
	plans, err := LoadPlans()
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "free", plans[0].Code)
	assert.True(t, plans[0].Price.IsZero())
	assert.Equal(t, "pro", plans[1].Code)
	assert.Equal(t, "19", plans[1].Price.String())
	assert.True(t, plans[1].Highlighted)
	assert.NotEmpty(t, plans[1].Features)
}

func TestParsePlansRejectsBadCatalogs(t *testing.T) {
	_, err := ParsePlans([]byte("plans:\n  - name: x\n    price: \"1\"\n"))
	assert.Error(t, err)

	_, err = ParsePlans([]byte("plans:\n  - code: a\n    price: \"1\"\n  - code: a\n    price: \"2\"\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = ParsePlans([]byte("plans:\n  - code: a\n    price: cheap\n"))
	assert.Error(t, err)
}
