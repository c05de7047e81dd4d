package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"osubot/internal/difficulty"
	"osubot/internal/logging"
	"osubot/internal/mods"
	"osubot/internal/osu"
	"osubot/internal/resolver"
	"osubot/internal/services"
	"osubot/internal/services/osuapi"
	"osubot/internal/title"
)

// Source is the subset of the statistics client the pipeline needs.
type Source interface {
	User(ctx context.Context, nameOrID, idType string) (osu.Player, error)
	UserRecent(ctx context.Context, userID int) ([]osu.Play, error)
	UserBest(ctx context.Context, userID, limit int) ([]osu.Score, error)
	Beatmap(ctx context.Context, id int) (osu.Beatmap, error)
	UserScore(ctx context.Context, userID, beatmapID int) (osu.Score, error)
	TopScore(ctx context.Context, beatmapID int) (osu.Score, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPostTimeout bounds the resolution of a single post.
func WithPostTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.postTimeout = d
	}
}

// Pipeline resolves score posts.
type Pipeline struct {
	source      Source
	resolver    *resolver.Resolver
	engine      *difficulty.Engine
	baseLogger  *slog.Logger
	logger      *slog.Logger
	postTimeout time.Duration
}

// New constructs a pipeline over source and engine.
func New(source Source, engine *difficulty.Engine, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		source:     source,
		resolver:   resolver.New(source, logger),
		engine:     engine,
		baseLogger: logger,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// withSource returns a copy of p that routes every statistics call through source.
func (p *Pipeline) withSource(source Source) *Pipeline {
	clone := *p
	clone.source = source
	clone.resolver = resolver.New(source, p.baseLogger)
	return &clone
}

// ResolvePost resolves one post. It never returns an error: terminal failures
// are reported through Outcome.Skip and later failures through
// ResolvedScore.Degraded.
func (p *Pipeline) ResolvePost(ctx context.Context, post Post) Outcome {
	outcome := Outcome{PostID: post.ID, Title: post.Title}
	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	if post.ID != "" {
		ctx = services.WithPostID(ctx, post.ID)
	}
	logger := logging.WithContext(ctx, p.logger)

	if !title.LooksLikeScorePost(post.Title, post.IsSelf) {
		return p.skip(logger, outcome, SkipNotScorePost, nil)
	}
	parsed, err := title.Parse(post.Title)
	if err != nil {
		return p.skip(logger, outcome, SkipUnparseableTitle, err)
	}

	if p.postTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.postTimeout)
		defer cancel()
	}

	player, err := p.source.User(ctx, parsed.Player, osuapi.IDTypeName)
	if err != nil {
		return p.skip(logger, outcome, p.terminalReason(ctx, SkipPlayerNotFound), err)
	}
	logger = logger.With(logging.Player(player.Username))

	set := mods.ParseFreeText(post.Title)
	beatmap, stats, err := p.resolver.ResolveWithStats(ctx, &player, parsed.Song, parsed.Diff)
	if err != nil {
		return p.skip(logger, outcome, p.terminalReason(ctx, SkipBeatmapNotFound), err,
			logging.Int("events_scanned", stats.EventsScanned),
			logging.Int("fetches", stats.Fetches),
		)
	}
	logger = logger.With(logging.BeatmapID(beatmap.ID))
	logger.Debug("beatmap resolved",
		logging.String("source", stats.Source),
		logging.Int("fetches", stats.Fetches),
		logging.Int("duplicates_skipped", stats.DuplicatesSkipped),
	)

	bpm, length := osu.AdjustedTiming(beatmap.BPM, beatmap.LengthSeconds, set)
	score := &ResolvedScore{
		RequestID: requestID,
		Player:    player,
		Beatmap:   beatmap,
		Mods:      set,
		BPM:       bpm,
		Length:    osu.Timestamp(length),
	}
	p.enrich(ctx, logger, score, post.Title)
	p.estimate(ctx, logger, score)

	outcome.Score = score
	logger.Info("post resolved",
		logging.String("beatmap", beatmap.DisplayName()),
		logging.String("mods", set.String()),
		logging.Bool("degraded", score.Degraded),
	)
	return outcome
}

// enrich fills the optional score sections. Failures omit the section.
func (p *Pipeline) enrich(ctx context.Context, logger *slog.Logger, score *ResolvedScore, rawTitle string) {
	if playerScore, err := p.source.UserScore(ctx, score.Player.ID, score.Beatmap.ID); err == nil {
		score.PlayerScore = &playerScore
		if acc := playerScore.Accuracy(); acc > 0 {
			score.Accuracy = &acc
		}
	} else {
		logger.Debug("player score unavailable", logging.String("reason", services.FailureKind(err)))
	}
	if score.Accuracy == nil {
		if acc, ok := title.Accuracy(rawTitle); ok {
			score.Accuracy = &acc
		}
	}

	if best, err := p.playerBest(ctx, score); err == nil {
		score.PlayerTop = best
	} else {
		logger.Debug("player top play unavailable", logging.String("reason", services.FailureKind(err)))
	}

	if !score.Beatmap.HasLeaderboard() {
		return
	}
	if top, err := p.source.TopScore(ctx, score.Beatmap.ID); err == nil {
		score.TopPlay = &top
	} else {
		logger.Debug("top play unavailable", logging.String("reason", services.FailureKind(err)))
	}
}

// playerBest fetches the player's highest-pp play and its chart. The resolved
// chart is reused when the best play was set on it.
func (p *Pipeline) playerBest(ctx context.Context, score *ResolvedScore) (*PlayerBest, error) {
	best, err := p.source.UserBest(ctx, score.Player.ID, 1)
	if err != nil {
		return nil, err
	}
	if len(best) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "pipeline", "player best", "no best plays", nil)
	}
	top := best[0]
	if top.BeatmapID == score.Beatmap.ID {
		return &PlayerBest{Score: top, Beatmap: score.Beatmap}, nil
	}
	beatmap, err := p.source.Beatmap(ctx, top.BeatmapID)
	if err != nil {
		return nil, err
	}
	return &PlayerBest{Score: top, Beatmap: beatmap}, nil
}

// estimate computes difficulty and pp through a per-post session.
func (p *Pipeline) estimate(ctx context.Context, logger *slog.Logger, score *ResolvedScore) {
	if p.engine == nil {
		score.Difficulty = difficulty.Result{Nomod: score.Beatmap.Nomod.Rounded()}
		return
	}
	session := p.engine.NewSession()
	score.Difficulty = session.Difficulty(ctx, score.Beatmap, score.Mods)
	if score.Difficulty.Degraded {
		score.Degraded = true
	}

	var achieved float64
	if score.Accuracy != nil {
		achieved = *score.Accuracy
	}
	nomod, err := session.Performance(ctx, score.Beatmap.ID, nil, achieved, nil)
	if err != nil {
		score.Degraded = true
		logging.WarnWithContext(logger, "nomod pp unavailable", "pp_degraded",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check calculator binary and chart download"),
			logging.String(logging.FieldImpact, "pp estimates omitted"),
		)
		return
	}
	score.NomodPP = &nomod
	if score.Mods.Empty() {
		return
	}

	modded, err := session.Performance(ctx, score.Beatmap.ID, score.Mods, achieved, score.NomodPP)
	if err != nil {
		score.Degraded = true
		logging.WarnWithContext(logger, "modded pp unavailable", "pp_degraded",
			logging.Error(err),
			logging.String("mods", score.Mods.String()),
			logging.String(logging.FieldErrorHint, "check calculator binary and chart download"),
			logging.String(logging.FieldImpact, "only nomod pp reported"),
		)
		return
	}
	score.ModdedPP = &modded
}

func (p *Pipeline) terminalReason(ctx context.Context, fallback SkipReason) SkipReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return SkipDeadlineExceeded
	}
	return fallback
}

func (p *Pipeline) skip(logger *slog.Logger, outcome Outcome, reason SkipReason, err error, attrs ...logging.Attr) Outcome {
	outcome.Skip = reason
	outcome.Detail = services.FailureKind(err)
	attrs = append(attrs, logging.DecisionAttrs("post_skip", "skipped", string(reason))...)
	if err != nil {
		attrs = append(attrs, logging.Error(err))
	}
	logger.Info("post skipped", logging.Args(attrs...)...)
	return outcome
}
