package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome statuses.
const (
	StatusResolved = "resolved"
	StatusSkipped  = "skipped"
)

// Entry is one processed post.
type Entry struct {
	PostID      string    `json:"post_id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	SkipReason  string    `json:"skip_reason,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	Player      string    `json:"player,omitempty"`
	BeatmapID   int       `json:"beatmap_id,omitempty"`
	Mods        string    `json:"mods,omitempty"`
	Degraded    bool      `json:"degraded,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Seen reports whether postID has already been recorded.
func (s *Store) Seen(ctx context.Context, postID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM processed_posts WHERE post_id = ?", postID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check post %s: %w", postID, err)
	}
	return count > 0, nil
}

// Record stores entry, replacing any previous row for the same post.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.PostID) == "" {
		return errors.New("post id is required")
	}
	if entry.ProcessedAt.IsZero() {
		entry.ProcessedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO processed_posts (
            post_id, title, status, skip_reason, request_id, player,
            beatmap_id, mods, degraded, detail, processed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(post_id) DO UPDATE SET
            title = excluded.title,
            status = excluded.status,
            skip_reason = excluded.skip_reason,
            request_id = excluded.request_id,
            player = excluded.player,
            beatmap_id = excluded.beatmap_id,
            mods = excluded.mods,
            degraded = excluded.degraded,
            detail = excluded.detail,
            processed_at = excluded.processed_at`,
		entry.PostID,
		entry.Title,
		entry.Status,
		nullableString(entry.SkipReason),
		nullableString(entry.RequestID),
		nullableString(entry.Player),
		nullableInt(entry.BeatmapID),
		nullableString(entry.Mods),
		boolToInt(entry.Degraded),
		nullableString(entry.Detail),
		entry.ProcessedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record post %s: %w", entry.PostID, err)
	}
	return nil
}

// List returns up to limit entries, most recent first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM processed_posts ORDER BY processed_at DESC, post_id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// Counts returns the number of recorded posts per status.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM processed_posts GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count history: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan history count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// Clear deletes every recorded post and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM processed_posts")
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}
