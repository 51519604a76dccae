// Package pipeline runs one curation pass for a feed type.
//
// Curator.Run discovers candidates from a Source, enriches the first
// EnrichLimit of them with a bounded worker pool, filters every candidate,
// scores the survivors, orders them, removes titles that collide with existing
// posts, and returns the top picks with ranks and a confidence figure.
//
// Run is the only stage that performs I/O. A failed enrichment keeps the
// discovery snapshot of that item instead of dropping it. The Result's Outcome
// distinguishes a run with no candidates at all from one where every
// candidate was filtered out or deduplicated away.
package pipeline
