package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"osubot/internal/logging"
	"osubot/internal/osu"
	"osubot/internal/services"
	"osubot/internal/textutil"
)

// Fetcher is the subset of the statistics client the resolver needs.
type Fetcher interface {
	Beatmap(ctx context.Context, id int) (osu.Beatmap, error)
	UserRecent(ctx context.Context, userID int) ([]osu.Play, error)
}

// Stats reports the work a resolution performed.
type Stats struct {
	EventsScanned     int
	Fetches           int
	DuplicatesSkipped int
	Source            string
}

// Match sources recorded in Stats.Source.
const (
	SourceEvents = "events"
	SourceRecent = "recent_plays"
)

// Resolver matches parsed titles to charts.
type Resolver struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// New constructs a resolver.
func New(fetcher Fetcher, logger *slog.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve returns the chart named "song [diff]" from the player's activity.
// A miss wraps services.ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, player *osu.Player, song, diff string) (osu.Beatmap, error) {
	beatmap, _, err := r.ResolveWithStats(ctx, player, song, diff)
	return beatmap, err
}

// ResolveWithStats is Resolve plus counters describing the search. When the
// player's recent plays were not loaded yet they are fetched and stored on
// player.
func (r *Resolver) ResolveWithStats(ctx context.Context, player *osu.Player, song, diff string) (osu.Beatmap, Stats, error) {
	var stats Stats
	if player == nil {
		return osu.Beatmap{}, stats, services.Wrap(services.ErrNotFound, "resolver", "resolve", "no player", nil)
	}
	logger := logging.WithContext(ctx, r.logger)

	target := song + " [" + diff + "]"
	plainTarget := textutil.Bleach(target)
	eventTarget := textutil.Bleach(textutil.EscapeEventHTML(target))
	seen := make(map[int]struct{})

	for _, event := range player.Events {
		stats.EventsScanned++
		if event.BeatmapID == 0 || !strings.Contains(textutil.Bleach(event.DisplayHTML), eventTarget) {
			continue
		}
		seen[event.BeatmapID] = struct{}{}
		stats.Fetches++
		beatmap, err := r.fetcher.Beatmap(ctx, event.BeatmapID)
		if err != nil {
			logging.WarnWithContext(logger, "event beatmap fetch failed", "event_fetch_failed",
				logging.BeatmapID(event.BeatmapID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "falling back to recent plays"),
				logging.String(logging.FieldImpact, "resolution may take more requests"),
			)
			break
		}
		stats.Source = SourceEvents
		logger.Debug("matched chart from events", logging.Args(append(
			logging.DecisionAttrs("chart_match", SourceEvents, "event text contains target"),
			logging.BeatmapID(beatmap.ID),
		)...)...)
		return beatmap, stats, nil
	}

	if player.RecentPlays == nil {
		plays, err := r.fetcher.UserRecent(ctx, player.ID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return osu.Beatmap{}, stats, services.Wrap(services.ErrTimeout, "resolver", "recent plays", "", ctxErr)
			}
			return osu.Beatmap{}, stats, services.Wrap(services.ErrAPI, "resolver", "recent plays",
				fmt.Sprintf("no match for %q in events and recent plays unavailable", target), err)
		}
		if plays == nil {
			plays = []osu.Play{}
		}
		player.RecentPlays = plays
	}

	for _, play := range player.RecentPlays {
		if err := ctx.Err(); err != nil {
			return osu.Beatmap{}, stats, services.Wrap(services.ErrTimeout, "resolver", "recent plays", "", err)
		}
		if _, ok := seen[play.BeatmapID]; ok {
			stats.DuplicatesSkipped++
			continue
		}
		seen[play.BeatmapID] = struct{}{}
		stats.Fetches++
		beatmap, err := r.fetcher.Beatmap(ctx, play.BeatmapID)
		if err != nil {
			logger.Debug("recent play beatmap fetch failed",
				logging.BeatmapID(play.BeatmapID),
				logging.Error(err),
			)
			continue
		}
		if textutil.Bleach(beatmap.DisplayName()) == plainTarget {
			stats.Source = SourceRecent
			logger.Debug("matched chart from recent plays", logging.Args(append(
				logging.DecisionAttrs("chart_match", SourceRecent, "display name equals target"),
				logging.BeatmapID(beatmap.ID),
				logging.Int("fetches", stats.Fetches),
			)...)...)
			return beatmap, stats, nil
		}
	}

	return osu.Beatmap{}, stats, services.Wrap(services.ErrNotFound, "resolver", "resolve",
		fmt.Sprintf("no chart matching %q in activity of %s", target, player.Username), nil)
}
