package pipeline

import (
	"context"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/dedup"
	"marquee/internal/filter"
	"marquee/internal/scoring"
)

// Source discovers and enriches catalog candidates.
type Source interface {
	Discover(ctx context.Context, feed catalog.FeedType, now time.Time) ([]catalog.Candidate, error)
	Enrich(ctx context.Context, item catalog.Item) (catalog.Item, error)
}

// PostSource supplies already scheduled posts for deduplication.
type PostSource interface {
	ExistingPosts(ctx context.Context, since time.Time) ([]dedup.ExistingPost, error)
}

// Outcome summarizes how a run ended.
type Outcome string

const (
	OutcomeSelected      Outcome = "selected"
	OutcomeNoCandidates  Outcome = "no_candidates"
	OutcomeAllFiltered   Outcome = "all_filtered"
	OutcomeAllDuplicates Outcome = "all_duplicates"
)

// Evaluation is the filter verdict for one candidate.
type Evaluation struct {
	Key      catalog.Key    `json:"key"`
	Title    string         `json:"title"`
	Hints    catalog.Hints  `json:"hints"`
	Enriched bool           `json:"enriched"`
	Outcome  filter.Outcome `json:"outcome"`
}

// Counts tracks candidate volumes at each stage.
type Counts struct {
	Fetched      int `json:"fetched"`
	Enriched     int `json:"enriched"`
	EnrichFailed int `json:"enrich_failed"`
	Passed       int `json:"passed_filters"`
	FilteredOut  int `json:"filtered_out"`
	Kept         int `json:"kept_after_dedup"`
	Selected     int `json:"selected"`
}

// Result is the full audit record of a run.
type Result struct {
	RunID       string               `json:"run_id"`
	Feed        catalog.FeedType     `json:"feed"`
	StartedAt   time.Time            `json:"started_at"`
	Duration    time.Duration        `json:"duration"`
	Outcome     Outcome              `json:"outcome"`
	Counts      Counts               `json:"counts"`
	Evaluations []Evaluation         `json:"evaluations"`
	Decisions   []dedup.Decision     `json:"decisions"`
	Selected    []scoring.ScoredItem `json:"selected"`
	Confidence  float64              `json:"confidence"`
	// Seen holds every key kept by dedup, including ones cut by maxItems.
	Seen dedup.Seen `json:"-"`
}

// Titles lists the selected titles in rank order.
func (r *Result) Titles() []string {
	out := make([]string, 0, len(r.Selected))
	for _, s := range r.Selected {
		out = append(out, s.Item.Common().Title)
	}
	return out
}
