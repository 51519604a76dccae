// Package services defines shared utilities consumed by the curation pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, feed types, and stage names
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper so callers can classify
//     catalog, storage, and configuration failures consistently.
//
// Use these helpers when wiring new integrations so operational behaviour
// (error classification, observability) stays uniform across the pipeline.
package services
