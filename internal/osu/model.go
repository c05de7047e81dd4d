package osu

import (
	"fmt"

	"osubot/internal/mods"
	"osubot/internal/textutil"
)

// Game modes as reported by the statistics service.
const (
	ModeStandard = 0
	ModeTaiko    = 1
	ModeCatch    = 2
	ModeMania    = 3
)

// Attributes holds the difficulty attributes of a chart.
type Attributes struct {
	CS float64 `json:"cs"`
	AR float64 `json:"ar"`
	OD float64 `json:"od"`
	HP float64 `json:"hp"`
	SR float64 `json:"sr"`
}

// Rounded applies display precision: one place for CS/AR/OD/HP, two for SR.
func (a Attributes) Rounded() Attributes {
	return Attributes{
		CS: textutil.Round(a.CS, 1),
		AR: textutil.Round(a.AR, 1),
		OD: textutil.Round(a.OD, 1),
		HP: textutil.Round(a.HP, 1),
		SR: textutil.Round(a.SR, 2),
	}
}

// Beatmap is a single playable difficulty.
type Beatmap struct {
	ID            int        `json:"id"`
	SetID         int        `json:"set_id"`
	Artist        string     `json:"artist"`
	Title         string     `json:"title"`
	Version       string     `json:"version"`
	Status        int        `json:"status"`
	ApprovedDate  string     `json:"approved_date,omitempty"`
	BPM           float64    `json:"bpm"`
	LengthSeconds int        `json:"length_seconds"`
	MaxCombo      int        `json:"max_combo"`
	Creator       string     `json:"creator"`
	PlayCount     int        `json:"play_count"`
	Mode          int        `json:"mode"`
	Nomod         Attributes `json:"nomod"`
}

// DisplayName renders "Artist - Title [Version]".
func (b Beatmap) DisplayName() string {
	return fmt.Sprintf("%s - %s [%s]", b.Artist, b.Title, b.Version)
}

// HasLeaderboard reports whether the chart is ranked, qualified, or loved.
func (b Beatmap) HasLeaderboard() bool {
	return b.Status >= 1 && b.Status <= 4
}

// RankedStatus describes the approval state, e.g. "Ranked (2017-07-02)".
func (b Beatmap) RankedStatus() string {
	return RankedStatus(b.Status, b.ApprovedDate)
}

// Event is one entry of a player's recent activity feed.
type Event struct {
	DisplayHTML  string `json:"display_html"`
	BeatmapID    int    `json:"beatmap_id"`
	BeatmapSetID int    `json:"beatmap_set_id"`
}

// HitCounts are the judgement tallies of a play.
type HitCounts struct {
	Count300  int `json:"count300"`
	Count100  int `json:"count100"`
	Count50   int `json:"count50"`
	CountMiss int `json:"countmiss"`
}

// Accuracy returns the standard-mode accuracy of the tallies.
func (h HitCounts) Accuracy() float64 {
	return Accuracy(h.Count300, h.Count100, h.Count50, h.CountMiss)
}

// Play is one entry of a player's recent plays.
type Play struct {
	BeatmapID int      `json:"beatmap_id"`
	Mods      mods.Set `json:"mods"`
	Score     int64    `json:"score"`
	MaxCombo  int      `json:"max_combo"`
	Rank      string   `json:"rank"`
	HitCounts
}

// Score is a leaderboard or personal-best entry on a chart.
type Score struct {
	UserID    int      `json:"user_id"`
	Username  string   `json:"username"`
	BeatmapID int      `json:"beatmap_id,omitempty"`
	Mods      mods.Set `json:"mods"`
	Score     int64    `json:"score"`
	MaxCombo  int      `json:"max_combo"`
	Perfect   bool     `json:"perfect"`
	Rank      string   `json:"rank"`
	PP        float64  `json:"pp"`
	HitCounts
}

// Player is a profile snapshot. RecentPlays is nil until fetched.
type Player struct {
	ID          int     `json:"id"`
	Username    string  `json:"username"`
	Rank        int     `json:"rank"`
	PP          float64 `json:"pp"`
	Accuracy    float64 `json:"accuracy"`
	PlayCount   int     `json:"play_count"`
	Events      []Event `json:"-"`
	RecentPlays []Play  `json:"-"`
}
