// Package preflight provides readiness checks for the external services,
// binaries, and filesystem paths that osubot depends on.
//
// The CLI "osubot deps" command runs RunAll and CheckSystemDeps and prints the
// results; "osubot batch" runs the same checks before touching any post so a
// misconfigured calculator or API key fails fast instead of degrading every
// post in the batch.
package preflight
