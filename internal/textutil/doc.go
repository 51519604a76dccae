// Package textutil provides the case-insensitive text matching used by the
// curation rules and a few display helpers.
//
// Matching folds both sides with Unicode case folding (golang.org/x/text) so
// allow-lists such as "Lucasfilm" match "LUCASFILM Ltd." and keyword lists
// match titles regardless of casing or locale-specific forms.
package textutil
