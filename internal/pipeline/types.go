package pipeline

import (
	"osubot/internal/difficulty"
	"osubot/internal/history"
	"osubot/internal/mods"
	"osubot/internal/osu"
	"osubot/internal/services"
)

// Post is a candidate score post.
type Post struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	IsSelf bool   `json:"is_self,omitempty"`
}

// SkipReason explains why a post produced no ResolvedScore.
type SkipReason string

// Skip reasons.
const (
	SkipNotScorePost     SkipReason = "not_score_post"
	SkipUnparseableTitle SkipReason = "unparseable_title"
	SkipPlayerNotFound   SkipReason = "player_not_found"
	SkipBeatmapNotFound  SkipReason = "beatmap_not_found"
	SkipDeadlineExceeded SkipReason = "deadline_exceeded"
	SkipAlreadyProcessed SkipReason = "already_processed"
)

// ResolvedScore is the fully resolved record for one post. Optional sections
// are nil when they could not be computed.
type ResolvedScore struct {
	RequestID   string                  `json:"request_id"`
	Player      osu.Player              `json:"player"`
	Beatmap     osu.Beatmap             `json:"beatmap"`
	Mods        mods.Set                `json:"mods"`
	Accuracy    *float64                `json:"accuracy,omitempty"`
	BPM         float64                 `json:"bpm"`
	Length      string                  `json:"length"`
	Difficulty  difficulty.Result       `json:"difficulty"`
	NomodPP     *difficulty.Performance `json:"nomod_pp,omitempty"`
	ModdedPP    *difficulty.Performance `json:"modded_pp,omitempty"`
	PlayerScore *osu.Score              `json:"player_score,omitempty"`
	TopPlay     *osu.Score              `json:"top_play,omitempty"`
	PlayerTop   *PlayerBest             `json:"player_top,omitempty"`
	Degraded    bool                    `json:"degraded,omitempty"`
}

// PlayerBest is the player's highest-pp play and the chart it was set on.
type PlayerBest struct {
	Score   osu.Score   `json:"score"`
	Beatmap osu.Beatmap `json:"beatmap"`
}

// Outcome is the result of processing one post: either Score or Skip is set.
type Outcome struct {
	PostID string         `json:"post_id"`
	Title  string         `json:"title"`
	Score  *ResolvedScore `json:"score,omitempty"`
	Skip   SkipReason     `json:"skip,omitempty"`
	Detail string         `json:"detail,omitempty"`
}

// Resolved reports whether the post produced a ResolvedScore.
func (o Outcome) Resolved() bool {
	return o.Score != nil
}

// Final reports whether rerunning the post would reach the same outcome.
// Deadlines and transport failures are transient; a missing player or chart
// is final only when the statistics service answered with an empty result.
func (o Outcome) Final() bool {
	if o.Score != nil {
		return true
	}
	switch o.Skip {
	case SkipNotScorePost, SkipUnparseableTitle:
		return true
	case SkipPlayerNotFound, SkipBeatmapNotFound:
		return o.Detail == services.FailureKind(services.ErrNotFound)
	default:
		return false
	}
}

// HistoryEntry converts the outcome to its persisted form.
func (o Outcome) HistoryEntry() history.Entry {
	entry := history.Entry{
		PostID: o.PostID,
		Title:  o.Title,
		Detail: o.Detail,
	}
	if o.Score == nil {
		entry.Status = history.StatusSkipped
		entry.SkipReason = string(o.Skip)
		return entry
	}
	entry.Status = history.StatusResolved
	entry.RequestID = o.Score.RequestID
	entry.Player = o.Score.Player.Username
	entry.BeatmapID = o.Score.Beatmap.ID
	entry.Mods = o.Score.Mods.String()
	entry.Degraded = o.Score.Degraded
	return entry
}

// Summary aggregates a batch run.
type Summary struct {
	Attempted        int       `json:"attempted"`
	Resolved         int       `json:"resolved"`
	Skipped          int       `json:"skipped"`
	Degraded         int       `json:"degraded"`
	AlreadyProcessed int       `json:"already_processed"`
	APIRequests      int64     `json:"api_requests"`
	Outcomes         []Outcome `json:"outcomes,omitempty"`
}
