package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/packscheduler/internal/infrastructure/sqlite"
)

// NewTestStore opens a migrated term store in a temp directory.
// The database is closed when the test ends.
func NewTestStore(t *testing.T) *sqlite.TermStore {
	t.Helper()
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "term.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.TermStore()
}
