// Package services defines shared utilities consumed by the resolution
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp post IDs, component names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can tell a bad
//     title from a missing chart, an API outage, or a calculator failure.
//
// Subpackages wrap the concrete collaborators: osuapi talks to the osu! v1
// statistics API and ppcalc drives the external pp calculator binary.
package services
