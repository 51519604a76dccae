package rules

import (
	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/textutil"
)

// Tables is the immutable rule data consulted during filtering and scoring.
type Tables struct {
	approved   map[int]struct{}
	rejected   map[int]struct{}
	highDemand map[int]struct{}

	// Ordered lists; the first matching entry is reported.
	majorStudios      []string
	topTierStudios    []string
	keywords          []string
	rejectedShowTypes []string
}

// New builds tables from configuration values.
func New(cfg config.Rules) *Tables {
	return &Tables{
		approved:          intSet(cfg.ApprovedGenres),
		rejected:          intSet(cfg.RejectedGenres),
		highDemand:        intSet(cfg.HighDemandGenres),
		majorStudios:      copyStrings(cfg.MajorStudios),
		topTierStudios:    copyStrings(cfg.TopTierStudios),
		keywords:          copyStrings(cfg.BlacklistedKeywords),
		rejectedShowTypes: copyStrings(cfg.RejectedShowTypes),
	}
}

// RejectedGenre returns the first rejected genre present in ids.
func (t *Tables) RejectedGenre(ids []int) (int, bool) {
	for _, id := range ids {
		if _, ok := t.rejected[id]; ok {
			return id, true
		}
	}
	return 0, false
}

// ApprovedGenres returns the approved genres present in ids, in item order.
func (t *Tables) ApprovedGenres(ids []int) []int {
	var out []int
	for _, id := range ids {
		if _, ok := t.approved[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// HighDemand reports whether any id is a high-demand genre.
func (t *Tables) HighDemand(ids []int) bool {
	for _, id := range ids {
		if _, ok := t.highDemand[id]; ok {
			return true
		}
	}
	return false
}

// MajorStudio returns the allow-list entry matching one of the item's
// studios or networks. Matching is a case-insensitive substring test.
func (t *Tables) MajorStudio(item catalog.Item) (string, bool) {
	studio, _, ok := textutil.FirstMatch(item.Affiliations(), t.majorStudios)
	return studio, ok
}

// TopTierStudio returns the top-tier entry matching the item, if any.
func (t *Tables) TopTierStudio(item catalog.Item) (string, bool) {
	studio, _, ok := textutil.FirstMatch(item.Affiliations(), t.topTierStudios)
	return studio, ok
}

// BlacklistedKeyword returns the first blacklisted keyword found in texts.
func (t *Tables) BlacklistedKeyword(texts ...string) (string, bool) {
	keyword, _, ok := textutil.FirstMatch(texts, t.keywords)
	return keyword, ok
}

// RejectedShowType reports whether showType exactly matches a rejected type.
func (t *Tables) RejectedShowType(showType string) bool {
	if showType == "" {
		return false
	}
	for _, rejected := range t.rejectedShowTypes {
		if textutil.EqualFold(showType, rejected) {
			return true
		}
	}
	return false
}

func intSet(values []int) map[int]struct{} {
	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func copyStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
