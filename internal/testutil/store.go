// Package testutil holds shared test helpers.
package testutil

import (
	"testing"

	"github.com/xiaot623/gogo/relay/internal/store"
)

// NewTestSQLiteStore opens an in-memory store that is closed when the test ends.
func NewTestSQLiteStore(t *testing.T) *store.SQLStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}
