// Package schedule persists the posts produced by curation runs in SQLite.
//
// The store is the source of ExistingPost records for deduplication: every
// committed selection becomes a row keyed by catalog id and media type with
// the feed type it was curated for and the time it is scheduled to go out.
// Commits are serialized across processes with an advisory file lock next to
// the database so two concurrent curate runs cannot both claim a title.
package schedule
