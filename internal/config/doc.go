// Package config loads, normalizes, and validates Marquee configuration data.
//
// It supplies repository defaults (including the curated genre, studio, and
// keyword tables), expands user paths, reads TOML files, and honours
// environment fallbacks such as TMDB_API_KEY. The Config type centralizes every
// knob the curation pipeline and CLI need so thresholds and allow-lists can be
// changed without touching rule code.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
