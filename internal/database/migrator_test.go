package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sadhna-backend/migrations"
)

func TestPendingFilesOrderAndFilters(t *testing.T) {
	files := fstest.MapFS{
		"002_leaves.sql":    {Data: []byte("SELECT 1")},
		"001_init.sql":      {Data: []byte("SELECT 1")},
		"003_reset_all.sql": {Data: []byte("DROP TABLE users")},
		"README.md":         {Data: []byte("notes")},
	}

	pending, err := PendingFiles(files, map[string]bool{})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_leaves.sql"}, pending)

	pending, err = PendingFiles(files, map[string]bool{"001_init.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"002_leaves.sql"}, pending)
}

func TestEmbeddedSchemaIsPresent(t *testing.T) {
	pending, err := PendingFiles(migrations.FS, nil)
	require.NoError(t, err)
	assert.Contains(t, pending, "001_init.sql")
}
