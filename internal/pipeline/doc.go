// Package pipeline turns a score-post title into a ResolvedScore.
//
// ResolvePost runs the stages in order: shape filter, title parse, player
// lookup, mod extraction, chart resolution, optional score enrichment, then
// difficulty and performance estimates. The first four failures are terminal
// and produce a SkipReason; everything after chart resolution degrades
// instead. ResolvePost never returns an error and never panics on bad input.
//
// RunBatch processes posts sequentially against a History so a post is
// resolved at most once across runs, and returns aggregate counts.
package pipeline
