// Package main hosts the osubot CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves single titles, runs batches of posts
// against the processed-post history, inspects that history, checks external
// dependencies, and scaffolds configuration. It centralizes configuration
// resolution, logger construction, and service wiring so subcommands can focus
// on presentation.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
