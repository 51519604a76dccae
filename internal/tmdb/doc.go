// Package tmdb wraps the subset of The Movie Database API used to discover and
// enrich curation candidates.
//
// Requests share a token-bucket rate limiter and a circuit breaker: once the
// API fails repeatedly the breaker opens and subsequent calls fail fast with
// services.ErrUnavailable until the cooldown elapses. A 404 does not count as a
// breaker failure.
//
// Source adapts the client to the pipeline: it maps feed types to discovery
// endpoints, records trending and upcoming list positions as hints, and
// converts detail payloads into catalog items.
package tmdb
