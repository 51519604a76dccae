package testsupport

import (
	"testing"

	"marquee/internal/config"
	"marquee/internal/schedule"
)

// MustOpenStore opens a schedule.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *schedule.Store {
	t.Helper()

	store, err := schedule.Open(cfg)
	if err != nil {
		t.Fatalf("schedule.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
