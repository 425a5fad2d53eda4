package testsupport

import (
	"testing"

	"easel/internal/config"
	"easel/internal/publish"
)

// MustOpenStore opens a publish.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *publish.Store {
	t.Helper()

	store, err := publish.Open(cfg)
	if err != nil {
		t.Fatalf("publish.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
