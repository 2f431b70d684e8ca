package testsupport

import (
	"context"
	"testing"

	"roster/internal/config"
	"roster/internal/logging"
	"roster/internal/store"
)

// MustOpenStore opens the backend selected by cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) store.Store {
	t.Helper()

	st, err := store.Open(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
