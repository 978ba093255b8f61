package db

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var spaces = regexp.MustCompile(`\s+`)

func upSchema(t *testing.T) string {
	t.Helper()
	files, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	var b strings.Builder
	for _, name := range files {
		data, err := fs.ReadFile(migrationsFS, name)
		require.NoError(t, err)
		b.Write(data)
		b.WriteByte('\n')
	}
	return spaces.ReplaceAllString(b.String(), " ")
}

func TestDeletingClientCascadesToInvoicesAndLineItems(t *testing.T) {
	schema := upSchema(t)
	assert.Contains(t, schema, "client_id BIGINT NOT NULL REFERENCES clients (id) ON DELETE CASCADE")
	assert.Contains(t, schema, "invoice_id BIGINT NOT NULL REFERENCES invoices (id) ON DELETE CASCADE")
}

func TestEveryUpMigrationHasDown(t *testing.T) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(migrationsFS, down)
		assert.NoError(t, err, "missing %s", down)
	}
}
