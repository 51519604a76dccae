package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/dedup"
	"marquee/internal/filter"
	"marquee/internal/logging"
	"marquee/internal/rules"
	"marquee/internal/scoring"
	"marquee/internal/services"
)

const (
	defaultEnrichLimit   = 50
	defaultEnrichWorkers = 5
)

const (
	stageDiscover = "discover"
	stageEnrich   = "enrich"
	stagePosts    = "existing_posts"
	stageFilter   = "filter"
	stageDedup    = "dedup"
)

// Limits bounds the enrichment step and the default batch size.
type Limits struct {
	MaxItems      int
	EnrichLimit   int
	EnrichWorkers int
}

// Option customizes a Curator.
type Option func(*Curator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Curator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Curator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLimits overrides the enrichment and batch limits.
func WithLimits(limits Limits) Option {
	return func(c *Curator) {
		c.limits = limits
	}
}

// WithRunIDs overrides run id generation.
func WithRunIDs(next func() string) Option {
	return func(c *Curator) {
		if next != nil {
			c.runID = next
		}
	}
}

// Curator sequences discovery, enrichment, filtering, scoring, and dedup.
type Curator struct {
	source  Source
	posts   PostSource
	filter  *filter.Engine
	scoring *scoring.Engine
	dedup   *dedup.Engine
	windows dedup.Windows
	limits  Limits
	logger  *slog.Logger
	now     func() time.Time
	runID   func() string
}

// New assembles a curator from prebuilt engines.
func New(source Source, posts PostSource, f *filter.Engine, s *scoring.Engine, windows dedup.Windows, opts ...Option) *Curator {
	c := &Curator{
		source:  source,
		posts:   posts,
		filter:  f,
		scoring: s,
		dedup:   dedup.New(windows),
		windows: windows,
		limits:  Limits{EnrichLimit: defaultEnrichLimit, EnrichWorkers: defaultEnrichWorkers},
		logger:  logging.NewNop(),
		now:     time.Now,
		runID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "pipeline")
	if c.limits.EnrichWorkers <= 0 {
		c.limits.EnrichWorkers = defaultEnrichWorkers
	}
	if c.limits.EnrichLimit < 0 {
		c.limits.EnrichLimit = 0
	}
	return c
}

// NewFromConfig builds the engines from configuration.
func NewFromConfig(cfg *config.Config, source Source, posts PostSource, opts ...Option) *Curator {
	tables := rules.New(cfg.Rules)
	base := []Option{WithLimits(Limits{
		MaxItems:      cfg.Curation.MaxItems,
		EnrichLimit:   cfg.Curation.EnrichLimit,
		EnrichWorkers: cfg.Curation.EnrichWorkers,
	})}
	return New(
		source,
		posts,
		filter.New(tables, filter.ThresholdsFromConfig(cfg.Curation)),
		scoring.New(tables),
		dedup.WindowsFromConfig(cfg.Dedup),
		append(base, opts...)...,
	)
}

// Run performs one curation pass. A maxItems of zero or less falls back to
// the configured batch size, and to no limit when that is unset too.
func (c *Curator) Run(ctx context.Context, feed catalog.FeedType, maxItems int) (*Result, error) {
	if c.source == nil {
		return nil, services.Wrap(services.ErrConfiguration, stageDiscover, "run", "no catalog source configured", nil)
	}
	if maxItems <= 0 {
		maxItems = c.limits.MaxItems
	}

	now := c.now()
	result := &Result{
		RunID:     c.runID(),
		Feed:      feed,
		StartedAt: now,
	}
	ctx = services.WithRunID(ctx, result.RunID)
	ctx = services.WithFeedType(ctx, string(feed))
	logger := logging.WithContext(ctx, c.logger)
	logger.Info("curation run started", logging.Int("max_items", maxItems))
	defer func() {
		result.Duration = c.now().Sub(now)
	}()

	candidates, err := c.source.Discover(services.WithStage(ctx, stageDiscover), feed, now)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, stageDiscover, "discover candidates", fmt.Sprintf("feed %s", feed), err)
	}
	result.Counts.Fetched = len(candidates)
	if len(candidates) == 0 {
		result.Outcome = OutcomeNoCandidates
		logger.Info("no candidates discovered", logging.String("outcome", string(result.Outcome)))
		return result, nil
	}

	candidates, enriched, err := c.enrich(services.WithStage(ctx, stageEnrich), candidates, &result.Counts)
	if err != nil {
		return nil, err
	}

	var posts []dedup.ExistingPost
	if c.posts != nil {
		posts, err = c.posts.ExistingPosts(services.WithStage(ctx, stagePosts), now.Add(-c.windows.Lookback()))
		if err != nil {
			return nil, services.Wrap(services.ErrExternal, stagePosts, "load existing posts", "", err)
		}
	}

	filterLog := logging.WithContext(services.WithStage(ctx, stageFilter), c.logger)
	scored := make([]scoring.ScoredItem, 0, len(candidates))
	result.Evaluations = make([]Evaluation, 0, len(candidates))
	for i, cand := range candidates {
		outcome := c.filter.Evaluate(cand.Item, feed, cand.Hints, now)
		key := cand.Item.Key()
		result.Evaluations = append(result.Evaluations, Evaluation{
			Key:      key,
			Title:    cand.Item.Common().Title,
			Hints:    cand.Hints,
			Enriched: enriched[i],
			Outcome:  outcome,
		})
		filterLog.Debug("filter decision", logging.Args(
			logging.Decision("filter", key, outcome.Pass, outcome.Reasons[len(outcome.Reasons)-1])...,
		)...)
		if !outcome.Pass {
			result.Counts.FilteredOut++
			continue
		}
		scored = append(scored, c.scoring.Score(cand.Item, feed, cand.Hints, now))
	}
	result.Counts.Passed = len(scored)
	if len(scored) == 0 {
		result.Outcome = OutcomeAllFiltered
		logger.Info("every candidate filtered out",
			logging.String("outcome", string(result.Outcome)),
			logging.Int("fetched", result.Counts.Fetched),
		)
		return result, nil
	}

	ordered := scoring.Prioritize(scored, 0)
	items := make([]catalog.Item, len(ordered))
	for i, s := range ordered {
		items[i] = s.Item
	}

	dedupLog := logging.WithContext(services.WithStage(ctx, stageDedup), c.logger)
	decisions, seen := c.dedup.Deduplicate(feed, items, posts, nil, now)
	result.Decisions = decisions
	result.Seen = seen

	selected := make([]scoring.ScoredItem, 0, min(len(ordered), max(maxItems, 0)))
	for i, d := range decisions {
		dedupLog.Debug("dedup decision", logging.Args(
			logging.Decision("dedup", d.Item.Key(), d.Kept, d.Reason)...,
		)...)
		if !d.Kept {
			continue
		}
		result.Counts.Kept++
		if maxItems > 0 && len(selected) >= maxItems {
			continue
		}
		selected = append(selected, ordered[i])
	}
	for i := range selected {
		selected[i].Rank = i + 1
	}
	result.Selected = selected
	result.Counts.Selected = len(selected)

	if len(selected) == 0 {
		result.Outcome = OutcomeAllDuplicates
		logger.Info("every survivor was a duplicate", logging.String("outcome", string(result.Outcome)))
		return result, nil
	}

	result.Outcome = OutcomeSelected
	result.Confidence = scoring.Confidence(selected)
	logger.Info("curation run completed",
		logging.String("outcome", string(result.Outcome)),
		logging.Int("fetched", result.Counts.Fetched),
		logging.Int("passed_filters", result.Counts.Passed),
		logging.Int("selected", result.Counts.Selected),
		logging.Float64("confidence", result.Confidence),
	)
	return result, nil
}

// enrich replaces the first EnrichLimit candidates with their detailed
// records. Failed lookups keep the discovery snapshot.
func (c *Curator) enrich(ctx context.Context, candidates []catalog.Candidate, counts *Counts) ([]catalog.Candidate, []bool, error) {
	out := slices.Clone(candidates)
	enriched := make([]bool, len(out))
	limit := min(c.limits.EnrichLimit, len(out))
	if limit == 0 {
		return out, enriched, nil
	}

	logger := logging.WithContext(ctx, c.logger)
	errs := make([]error, limit)
	sem := make(chan struct{}, c.limits.EnrichWorkers)
	var wg sync.WaitGroup
	for i := range limit {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			defer func() { <-sem }()

			original := out[i].Item
			detailed, err := c.source.Enrich(services.WithRequestID(ctx, original.Key().String()), original)
			switch {
			case err != nil:
				errs[i] = err
			case detailed == nil:
				errs[i] = errors.New("empty detail record")
			case detailed.Key() != original.Key():
				errs[i] = fmt.Errorf("detail record %s does not match %s", detailed.Key(), original.Key())
			default:
				out[i].Item = detailed
				enriched[i] = true
			}
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	for i, err := range errs {
		if err == nil {
			counts.Enriched++
			continue
		}
		counts.EnrichFailed++
		logging.WarnWithContext(logger, "enrichment failed; using discovery data", "enrich_failed",
			logging.Key(out[i].Item.Key()),
			logging.String("title", out[i].Item.Common().Title),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
			logging.String(logging.FieldImpact, "item evaluated with list data"),
		)
	}
	logger.Debug("enrichment complete",
		logging.Int("requested", limit),
		logging.Int("enriched", counts.Enriched),
		logging.Int("failed", counts.EnrichFailed),
	)
	return out, enriched, nil
}
