package testsupport

import (
	"context"
	"testing"

	"osubot/internal/config"
	"osubot/internal/history"
)

// MustOpenHistory opens the history store configured by cfg and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(context.Background(), cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Record stores entry for tests.
func Record(t testing.TB, store *history.Store, entry history.Entry) {
	t.Helper()

	if err := store.Record(context.Background(), entry); err != nil {
		t.Fatalf("store.Record: %v", err)
	}
}
