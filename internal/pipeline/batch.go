package pipeline

import (
	"context"
	"sync/atomic"

	"osubot/internal/history"
	"osubot/internal/logging"
	"osubot/internal/osu"
)

// History records processed posts across runs.
type History interface {
	Seen(ctx context.Context, postID string) (bool, error)
	Record(ctx context.Context, entry history.Entry) error
}

// RunBatch resolves posts sequentially. Posts already present in hist are
// skipped without any statistics request. Only final outcomes are recorded, so
// posts that hit a deadline or a transport failure are retried next run.
// A nil hist disables de-duplication. Cancelling ctx stops the batch before
// the next post.
func (p *Pipeline) RunBatch(ctx context.Context, posts []Post, hist History) Summary {
	counter := &countingSource{Source: p.source}
	batch := p.withSource(counter)

	var summary Summary
	for _, post := range posts {
		if ctx.Err() != nil {
			p.logger.Warn("batch interrupted",
				logging.Int("remaining", len(posts)-summary.Attempted-summary.AlreadyProcessed),
				logging.String(logging.FieldEventType, "batch_interrupted"),
				logging.String(logging.FieldErrorHint, "rerun the batch; processed posts are skipped"),
				logging.String(logging.FieldImpact, "remaining posts not processed"),
			)
			break
		}

		if hist != nil && post.ID != "" {
			seen, err := hist.Seen(ctx, post.ID)
			if err != nil {
				logging.WarnWithContext(p.logger, "history lookup failed", "history_lookup_failed",
					logging.PostID(post.ID),
					logging.Error(err),
					logging.String(logging.FieldImpact, "post may be processed twice"),
				)
			} else if seen {
				summary.AlreadyProcessed++
				summary.Outcomes = append(summary.Outcomes, Outcome{
					PostID: post.ID,
					Title:  post.Title,
					Skip:   SkipAlreadyProcessed,
				})
				continue
			}
		}

		outcome := batch.ResolvePost(ctx, post)
		summary.Attempted++
		switch {
		case outcome.Resolved():
			summary.Resolved++
			if outcome.Score.Degraded {
				summary.Degraded++
			}
		default:
			summary.Skipped++
		}
		summary.Outcomes = append(summary.Outcomes, outcome)

		if hist != nil && post.ID != "" {
			if !outcome.Final() {
				p.logger.Debug("outcome not recorded",
					logging.PostID(post.ID),
					logging.String("skip", string(outcome.Skip)),
					logging.String("detail", outcome.Detail),
				)
				continue
			}
			if err := hist.Record(ctx, outcome.HistoryEntry()); err != nil {
				logging.WarnWithContext(p.logger, "history record failed", "history_record_failed",
					logging.PostID(post.ID),
					logging.Error(err),
					logging.String(logging.FieldImpact, "post will be processed again next run"),
				)
			}
		}
	}
	summary.APIRequests = counter.requests.Load()

	p.logger.Info("batch complete",
		logging.Int("attempted", summary.Attempted),
		logging.Int("resolved", summary.Resolved),
		logging.Int("skipped", summary.Skipped),
		logging.Int("degraded", summary.Degraded),
		logging.Int("already_processed", summary.AlreadyProcessed),
		logging.Int64("api_requests", summary.APIRequests),
	)
	return summary
}

// countingSource counts statistics requests for one batch.
type countingSource struct {
	Source
	requests atomic.Int64
}

func (c *countingSource) User(ctx context.Context, nameOrID, idType string) (osu.Player, error) {
	c.requests.Add(1)
	return c.Source.User(ctx, nameOrID, idType)
}

func (c *countingSource) UserRecent(ctx context.Context, userID int) ([]osu.Play, error) {
	c.requests.Add(1)
	return c.Source.UserRecent(ctx, userID)
}

func (c *countingSource) UserBest(ctx context.Context, userID, limit int) ([]osu.Score, error) {
	c.requests.Add(1)
	return c.Source.UserBest(ctx, userID, limit)
}

func (c *countingSource) Beatmap(ctx context.Context, id int) (osu.Beatmap, error) {
	c.requests.Add(1)
	return c.Source.Beatmap(ctx, id)
}

func (c *countingSource) UserScore(ctx context.Context, userID, beatmapID int) (osu.Score, error) {
	c.requests.Add(1)
	return c.Source.UserScore(ctx, userID, beatmapID)
}

func (c *countingSource) TopScore(ctx context.Context, beatmapID int) (osu.Score, error) {
	c.requests.Add(1)
	return c.Source.TopScore(ctx, beatmapID)
}
