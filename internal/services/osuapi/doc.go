// Package osuapi is a read-only client for the osu! v1 statistics API and the
// raw chart download endpoint.
//
// Requests are paced by a token-bucket limiter and are never retried. Every
// failure wraps services.ErrAPI; the API key never appears in returned errors.
package osuapi
