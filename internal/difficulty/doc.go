// Package difficulty computes nomod and modded difficulty attributes and
// performance estimates for a chart.
//
// Numeric analysis is delegated to a Calculator (the ppcalc subprocess client
// in production). Each calculation leases its own chart file under the work
// directory, named by beatmap id plus a random suffix, so concurrent calls
// never share a path; the file is removed on every exit path. Difficulty
// failures degrade to nomod-only results instead of failing the caller.
package difficulty
