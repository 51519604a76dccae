// Package filter decides whether a catalog item is eligible for a feed.
//
// Evaluation walks a fixed chain of rules (region, popularity, genre, studio,
// images, title eligibility, trending confirmation, and the anniversary-only
// gate) and stops at the first failure. Every evaluated rule appends one line
// to the outcome's reasons, so a rejected item always carries the rule that
// rejected it and the rules it cleared before that.
//
// Evaluate performs no I/O and never returns an error: missing metadata such as
// an empty country list or a zero vote count fails the relevant rule.
package filter
