package history

import (
	"database/sql"
	"fmt"
	"time"
)

const entryColumns = "post_id, title, status, skip_reason, request_id, player, beatmap_id, mods, degraded, detail, processed_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry        Entry
		skipReason   sql.NullString
		requestID    sql.NullString
		player       sql.NullString
		beatmapID    sql.NullInt64
		modsText     sql.NullString
		degraded     int
		detail       sql.NullString
		processedRaw string
	)
	if err := scanner.Scan(
		&entry.PostID,
		&entry.Title,
		&entry.Status,
		&skipReason,
		&requestID,
		&player,
		&beatmapID,
		&modsText,
		&degraded,
		&detail,
		&processedRaw,
	); err != nil {
		return Entry{}, fmt.Errorf("scan history entry: %w", err)
	}
	entry.SkipReason = skipReason.String
	entry.RequestID = requestID.String
	entry.Player = player.String
	entry.BeatmapID = int(beatmapID.Int64)
	entry.Mods = modsText.String
	entry.Degraded = degraded != 0
	entry.Detail = detail.String
	entry.ProcessedAt = parseTime(processedRaw)
	return entry, nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts
	}
	return time.Time{}
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
