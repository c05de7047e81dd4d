package history_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"osubot/internal/history"
	"osubot/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	seen, err := store.Seen(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Seen failed: %v", err)
	}
	if seen {
		t.Fatal("empty store should not report posts as seen")
	}
	if store.Path() != cfg.Paths.HistoryDB {
		t.Fatalf("unexpected path %q", store.Path())
	}
}

func TestRecordMarksSeenAndReplaces(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	testsupport.Record(t, store, history.Entry{
		PostID:     "p1",
		Title:      "a | b - c [d]",
		Status:     history.StatusSkipped,
		SkipReason: "beatmap_not_found",
	})
	testsupport.Record(t, store, history.Entry{
		PostID:    "p1",
		Title:     "a | b - c [d]",
		Status:    history.StatusResolved,
		Player:    "a",
		BeatmapID: 129891,
		Mods:      "+HDDT",
		Degraded:  true,
	})

	seen, err := store.Seen(ctx, "p1")
	if err != nil || !seen {
		t.Fatalf("expected p1 seen, got %v %v", seen, err)
	}
	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one row per post, got %d", len(entries))
	}
	got := entries[0]
	if got.Status != history.StatusResolved || got.SkipReason != "" || got.BeatmapID != 129891 || !got.Degraded || got.Mods != "+HDDT" {
		t.Fatalf("unexpected entry %+v", got)
	}
	if got.ProcessedAt.IsZero() {
		t.Fatal("expected processed_at to be set")
	}
}

func TestListOrdersNewestFirstAndLimits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		testsupport.Record(t, store, history.Entry{
			PostID:      id,
			Title:       id,
			Status:      history.StatusResolved,
			ProcessedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	entries, err := store.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 || entries[0].PostID != "new" || entries[1].PostID != "mid" {
		t.Fatalf("unexpected order %+v", entries)
	}
	if !entries[0].ProcessedAt.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("unexpected timestamp %v", entries[0].ProcessedAt)
	}
}

func TestCountsAndClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	testsupport.Record(t, store, history.Entry{PostID: "a", Title: "a", Status: history.StatusResolved})
	testsupport.Record(t, store, history.Entry{PostID: "b", Title: "b", Status: history.StatusSkipped, SkipReason: "not_score_post"})
	testsupport.Record(t, store, history.Entry{PostID: "c", Title: "c", Status: history.StatusSkipped, SkipReason: "player_not_found"})

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts[history.StatusResolved] != 1 || counts[history.StatusSkipped] != 2 {
		t.Fatalf("unexpected counts %v", counts)
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	if seen, _ := store.Seen(ctx, "a"); seen {
		t.Fatal("expected history to be empty after clear")
	}
}

func TestRecordRequiresPostID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	if err := store.Record(context.Background(), history.Entry{Title: "x"}); err == nil {
		t.Fatal("expected error for missing post id")
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	first, err := history.Open(ctx, cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := first.Record(ctx, history.Entry{PostID: "keep", Title: "t", Status: history.StatusResolved}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := testsupport.MustOpenHistory(t, cfg)
	if seen, err := second.Seen(ctx, "keep"); err != nil || !seen {
		t.Fatalf("expected entry to survive reopen, got %v %v", seen, err)
	}
}

func TestSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	store := testsupport.MustOpenHistory(t, cfg)
	store.Close()

	db, err := sql.Open("sqlite", cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("update version: %v", err)
	}
	db.Close()

	_, err = history.Open(ctx, cfg.Paths.HistoryDB)
	if !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
