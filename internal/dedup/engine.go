package dedup

import (
	"fmt"
	"maps"
	"math"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/config"
)

const day = 24 * time.Hour

const (
	// ReasonInBatch marks a key already kept earlier in the batch.
	ReasonInBatch = "duplicate in current batch"
	// ReasonPassed marks a kept candidate.
	ReasonPassed = "passed deduplication checks"
)

// Rule identifies which check produced a decision.
type Rule string

const (
	RuleNone        Rule = ""
	RuleInBatch     Rule = "in_batch"
	RuleWindow      Rule = "window"
	RuleAnniversary Rule = "anniversary_cross"
)

// ExistingPost is a scheduled or published post owned by the schedule store.
type ExistingPost struct {
	Key         catalog.Key      `json:"key"`
	Source      catalog.FeedType `json:"source"`
	ScheduledAt time.Time        `json:"scheduled_at"`
	Title       string           `json:"title,omitempty"`
}

// Decision records the verdict for one candidate.
type Decision struct {
	Item   catalog.Item `json:"item"`
	Kept   bool         `json:"kept"`
	Reason string       `json:"reason"`
	Rule   Rule         `json:"rule,omitempty"`
	// Conflict is the post that caused a window rejection.
	Conflict *ExistingPost `json:"conflict,omitempty"`
}

// Seen is the set of keys kept so far in a batch.
type Seen map[catalog.Key]struct{}

// Has reports whether key was already kept.
func (s Seen) Has(key catalog.Key) bool {
	_, ok := s[key]
	return ok
}

// Windows holds the dedup window lengths in days.
type Windows struct {
	StandardDays         int
	AnniversaryCrossDays int
}

// WindowsFromConfig maps configuration onto engine windows.
func WindowsFromConfig(cfg config.Dedup) Windows {
	return Windows{
		StandardDays:         cfg.WindowDays,
		AnniversaryCrossDays: cfg.AnniversaryCrossWindowDays,
	}
}

// Lookback is how far back existing posts must be loaded to cover both
// windows.
func (w Windows) Lookback() time.Duration {
	return time.Duration(max(w.StandardDays, w.AnniversaryCrossDays)) * day
}

// Engine applies the dedup windows.
type Engine struct {
	windows Windows
}

// New constructs a dedup engine.
func New(windows Windows) *Engine {
	return &Engine{windows: windows}
}

// Deduplicate decides each candidate in order and returns one decision per
// candidate along with the updated seen set. The seen set passed in is not
// modified; a nil set starts a fresh batch.
func (e *Engine) Deduplicate(feed catalog.FeedType, items []catalog.Item, posts []ExistingPost, seen Seen, now time.Time) ([]Decision, Seen) {
	next := make(Seen, len(seen)+len(items))
	maps.Copy(next, seen)

	byKey := make(map[catalog.Key][]ExistingPost, len(posts))
	for _, p := range posts {
		byKey[p.Key] = append(byKey[p.Key], p)
	}

	decisions := make([]Decision, 0, len(items))
	for _, item := range items {
		key := item.Key()
		decision := e.decide(feed, key, byKey[key], next, now)
		decision.Item = item
		if decision.Kept {
			next[key] = struct{}{}
		}
		decisions = append(decisions, decision)
	}
	return decisions, next
}

func (e *Engine) decide(feed catalog.FeedType, key catalog.Key, posts []ExistingPost, seen Seen, now time.Time) Decision {
	if seen.Has(key) {
		return Decision{Reason: ReasonInBatch, Rule: RuleInBatch}
	}

	window := time.Duration(e.windows.StandardDays) * day
	for i := range posts {
		p := posts[i]
		if p.ScheduledAt.After(now) {
			continue
		}
		if elapsed := now.Sub(p.ScheduledAt); elapsed < window {
			return Decision{
				Reason:   fmt.Sprintf("posted %s ago as %s, inside %d-day window", formatDays(elapsed), p.Source, e.windows.StandardDays),
				Rule:     RuleWindow,
				Conflict: &p,
			}
		}
	}

	if feed == catalog.FeedAnniversary {
		cross := time.Duration(e.windows.AnniversaryCrossDays) * day
		for i := range posts {
			p := posts[i]
			if p.Source == catalog.FeedAnniversary {
				continue
			}
			delta := p.ScheduledAt.Sub(now)
			if delta < 0 {
				delta = -delta
			}
			if delta < cross {
				return Decision{
					Reason:   fmt.Sprintf("%s post %s from now, inside %d-day anniversary window", p.Source, formatDays(delta), e.windows.AnniversaryCrossDays),
					Rule:     RuleAnniversary,
					Conflict: &p,
				}
			}
		}
	}

	return Decision{Kept: true, Reason: ReasonPassed}
}

// Cooldown returns the whole days before key may be posted to feed again.
// Anniversary candidates also wait out the cross window around any standard
// post.
func (e *Engine) Cooldown(feed catalog.FeedType, key catalog.Key, posts []ExistingPost, now time.Time) int {
	days := TimeUntilNextEligible(key, e.windows.StandardDays, posts, now)
	if feed != catalog.FeedAnniversary {
		return days
	}
	cross := time.Duration(e.windows.AnniversaryCrossDays) * day
	for _, p := range posts {
		if p.Key != key || p.Source == catalog.FeedAnniversary {
			continue
		}
		if p.ScheduledAt.Sub(now) >= cross {
			continue
		}
		if remaining := p.ScheduledAt.Add(cross).Sub(now); remaining > 0 {
			days = max(days, int(math.Ceil(remaining.Hours()/24)))
		}
	}
	return days
}

// TimeUntilNextEligible returns the whole days left before key clears a
// windowDays cooldown measured from its most recent post at or before now.
// It returns 0 when the key is already eligible.
func TimeUntilNextEligible(key catalog.Key, windowDays int, posts []ExistingPost, now time.Time) int {
	var latest time.Time
	for _, p := range posts {
		if p.Key != key || p.ScheduledAt.After(now) {
			continue
		}
		if p.ScheduledAt.After(latest) {
			latest = p.ScheduledAt
		}
	}
	if latest.IsZero() {
		return 0
	}
	remaining := latest.Add(time.Duration(windowDays) * day).Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

func formatDays(d time.Duration) string {
	days := d.Hours() / 24
	if days < 1 {
		return fmt.Sprintf("%.0fh", d.Hours())
	}
	return fmt.Sprintf("%.0fd", math.Floor(days))
}
