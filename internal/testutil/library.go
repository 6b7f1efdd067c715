package testutil

import (
	"testing"

	"opalite-go/internal/library"
)

// NewTestLibrary creates an in-memory SQLite library with the schema applied.
// The library is closed when the test completes.
func NewTestLibrary(t *testing.T) *library.SQLiteLibrary {
	t.Helper()

	lib, err := library.NewSQLiteLibrary(":memory:")
	if err != nil {
		t.Fatalf("failed to create library: %v", err)
	}
	t.Cleanup(func() {
		lib.Close()
	})
	return lib
}
