// Package catalog defines the read-only projection over movie and TV records
// that every curation rule is written against.
//
// Movies and shows share most of their metadata (popularity, votes, genres,
// countries, artwork) but differ in a handful of type-specific fields such as
// runtime versus episode counts. Both cases embed Fields and satisfy Item, so
// the filter and scoring engines read the common shape once and only switch on
// the concrete type where a rule genuinely differs.
//
// Items are snapshots: they are built once per curation run from catalog
// responses and never mutated by downstream stages.
package catalog
