// Package osu defines read-only snapshots of statistics-service records
// (charts, players, recent activity, scores) and the derived values shown
// next to a resolved score: timestamps, speed-adjusted timing, hit-count
// accuracy, and ranked status.
package osu
