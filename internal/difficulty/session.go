package difficulty

import (
	"context"

	"osubot/internal/mods"
	"osubot/internal/osu"
)

type cacheKey struct {
	beatmapID int
	mask      uint
}

type perfKey struct {
	cacheKey
	achieved float64
	nomod    bool
}

// Session memoizes engine results for one post resolution. Downloaded chart
// bytes are reused across calls; every calculation still leases its own
// file. A Session is not safe for concurrent use and must not outlive the
// resolution it was created for.
type Session struct {
	engine      *Engine
	charts      map[int][]byte
	difficulty  map[cacheKey]Result
	performance map[perfKey]Performance
}

// NewSession returns an empty per-resolution cache.
func (e *Engine) NewSession() *Session {
	return &Session{
		engine:      e,
		charts:      make(map[int][]byte),
		difficulty:  make(map[cacheKey]Result),
		performance: make(map[perfKey]Performance),
	}
}

// Difficulty is Engine.Difficulty with memoization by (beatmap id, mods).
// Degraded results are not cached.
func (s *Session) Difficulty(ctx context.Context, beatmap osu.Beatmap, set mods.Set) Result {
	key := cacheKey{beatmapID: beatmap.ID, mask: mods.Encode(set)}
	if cached, ok := s.difficulty[key]; ok {
		return cached
	}
	result := s.engine.difficulty(ctx, beatmap, set, s.fetchChart)
	if !result.Degraded {
		s.difficulty[key] = result
	}
	return result
}

// Performance is Engine.Performance with memoization.
func (s *Session) Performance(ctx context.Context, beatmapID int, set mods.Set, achieved float64, nomod *Performance) (Performance, error) {
	key := perfKey{
		cacheKey: cacheKey{beatmapID: beatmapID, mask: mods.Encode(set)},
		achieved: achieved,
		nomod:    nomod != nil,
	}
	if cached, ok := s.performance[key]; ok {
		return cached, nil
	}
	perf, err := s.engine.performance(ctx, beatmapID, set, achieved, nomod, s.fetchChart)
	if err != nil {
		return Performance{}, err
	}
	s.performance[key] = perf
	return perf, nil
}

func (s *Session) fetchChart(ctx context.Context, beatmapID int) ([]byte, error) {
	if raw, ok := s.charts[beatmapID]; ok {
		return raw, nil
	}
	raw, err := s.engine.fetchChart(ctx, beatmapID)
	if err != nil {
		return nil, err
	}
	if ValidateChart(raw) == nil {
		s.charts[beatmapID] = raw
	}
	return raw, nil
}
