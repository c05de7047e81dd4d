package osuapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"osubot/internal/mods"
	"osubot/internal/osu"
)

// The v1 API encodes every number as a JSON string and uses null for absent
// values.

type apiInt int64

func (n *apiInt) UnmarshalJSON(data []byte) error {
	raw, ok := unquoteNumber(data)
	if !ok {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return fmt.Errorf("parse integer %q: %w", raw, err)
		}
		v = int64(f)
	}
	*n = apiInt(v)
	return nil
}

type apiFloat float64

func (n *apiFloat) UnmarshalJSON(data []byte) error {
	raw, ok := unquoteNumber(data)
	if !ok {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", raw, err)
	}
	*n = apiFloat(v)
	return nil
}

func unquoteNumber(data []byte) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", false
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil || s == "" {
			return "", false
		}
		return s, true
	}
	return string(data), true
}

type userPayload struct {
	UserID    apiInt         `json:"user_id"`
	Username  string         `json:"username"`
	PPRank    apiInt         `json:"pp_rank"`
	PPRaw     apiFloat       `json:"pp_raw"`
	Accuracy  apiFloat       `json:"accuracy"`
	PlayCount apiInt         `json:"playcount"`
	Events    []eventPayload `json:"events"`
}

type eventPayload struct {
	DisplayHTML  string `json:"display_html"`
	BeatmapID    apiInt `json:"beatmap_id"`
	BeatmapSetID apiInt `json:"beatmapset_id"`
}

type beatmapPayload struct {
	BeatmapID        apiInt   `json:"beatmap_id"`
	BeatmapSetID     apiInt   `json:"beatmapset_id"`
	Approved         apiInt   `json:"approved"`
	ApprovedDate     string   `json:"approved_date"`
	Artist           string   `json:"artist"`
	Title            string   `json:"title"`
	Version          string   `json:"version"`
	Creator          string   `json:"creator"`
	BPM              apiFloat `json:"bpm"`
	TotalLength      apiInt   `json:"total_length"`
	MaxCombo         apiInt   `json:"max_combo"`
	PlayCount        apiInt   `json:"playcount"`
	Mode             apiInt   `json:"mode"`
	DiffSize         apiFloat `json:"diff_size"`
	DiffApproach     apiFloat `json:"diff_approach"`
	DiffOverall      apiFloat `json:"diff_overall"`
	DiffDrain        apiFloat `json:"diff_drain"`
	DifficultyRating apiFloat `json:"difficultyrating"`
}

type scorePayload struct {
	BeatmapID   apiInt   `json:"beatmap_id"`
	UserID      apiInt   `json:"user_id"`
	Username    string   `json:"username"`
	Score       apiInt   `json:"score"`
	MaxCombo    apiInt   `json:"maxcombo"`
	Count300    apiInt   `json:"count300"`
	Count100    apiInt   `json:"count100"`
	Count50     apiInt   `json:"count50"`
	CountMiss   apiInt   `json:"countmiss"`
	Perfect     apiInt   `json:"perfect"`
	EnabledMods apiInt   `json:"enabled_mods"`
	Rank        string   `json:"rank"`
	PP          apiFloat `json:"pp"`
}

func (p userPayload) player() osu.Player {
	events := make([]osu.Event, 0, len(p.Events))
	for _, e := range p.Events {
		events = append(events, osu.Event{
			DisplayHTML:  e.DisplayHTML,
			BeatmapID:    int(e.BeatmapID),
			BeatmapSetID: int(e.BeatmapSetID),
		})
	}
	return osu.Player{
		ID:        int(p.UserID),
		Username:  p.Username,
		Rank:      int(p.PPRank),
		PP:        float64(p.PPRaw),
		Accuracy:  float64(p.Accuracy),
		PlayCount: int(p.PlayCount),
		Events:    events,
	}
}

func (p beatmapPayload) beatmap() osu.Beatmap {
	return osu.Beatmap{
		ID:            int(p.BeatmapID),
		SetID:         int(p.BeatmapSetID),
		Artist:        p.Artist,
		Title:         p.Title,
		Version:       p.Version,
		Status:        int(p.Approved),
		ApprovedDate:  p.ApprovedDate,
		BPM:           float64(p.BPM),
		LengthSeconds: int(p.TotalLength),
		MaxCombo:      int(p.MaxCombo),
		Creator:       p.Creator,
		PlayCount:     int(p.PlayCount),
		Mode:          int(p.Mode),
		Nomod: osu.Attributes{
			CS: float64(p.DiffSize),
			AR: float64(p.DiffApproach),
			OD: float64(p.DiffOverall),
			HP: float64(p.DiffDrain),
			SR: float64(p.DifficultyRating),
		},
	}
}

func (p scorePayload) hitCounts() osu.HitCounts {
	return osu.HitCounts{
		Count300:  int(p.Count300),
		Count100:  int(p.Count100),
		Count50:   int(p.Count50),
		CountMiss: int(p.CountMiss),
	}
}

func (p scorePayload) play() osu.Play {
	return osu.Play{
		BeatmapID: int(p.BeatmapID),
		Mods:      mods.Decode(uint(p.EnabledMods)),
		Score:     int64(p.Score),
		MaxCombo:  int(p.MaxCombo),
		Rank:      p.Rank,
		HitCounts: p.hitCounts(),
	}
}

func (p scorePayload) score() osu.Score {
	return osu.Score{
		UserID:    int(p.UserID),
		Username:  p.Username,
		BeatmapID: int(p.BeatmapID),
		Mods:      mods.Decode(uint(p.EnabledMods)),
		Score:     int64(p.Score),
		MaxCombo:  int(p.MaxCombo),
		Perfect:   p.Perfect == 1,
		Rank:      p.Rank,
		PP:        float64(p.PP),
		HitCounts: p.hitCounts(),
	}
}
