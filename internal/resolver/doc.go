// Package resolver finds the chart a score post refers to using only the
// player's own activity: first the recent-events feed, then the bounded list
// of recent plays. Each beatmap id is fetched at most once per resolution.
package resolver
