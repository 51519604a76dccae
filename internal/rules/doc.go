// Package rules holds the lookup tables shared by the filter and scoring
// engines: genre sets, studio allow-lists, blacklisted keywords, and rejected
// TV show types.
//
// Tables are built from configuration once per run and are read-only
// afterwards, so a single Tables value can be shared by concurrent callers.
package rules
