package tmdb

import (
	"context"
	"fmt"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/config"
)

// anniversaryMinVotes matches the vote floor the anniversary filter applies,
// so discover does not return titles that can never pass.
const anniversaryMinVotes = 1000

// Source discovers candidates per feed type and enriches them with details.
type Source struct {
	client *Client
	cfg    config.TMDB
}

// NewSource binds a client to discovery settings.
func NewSource(client *Client, cfg config.TMDB) *Source {
	return &Source{client: client, cfg: cfg}
}

// NewFromConfig builds a client and source from configuration.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Source, error) {
	if err := cfg.ValidateCatalogAccess(); err != nil {
		return nil, err
	}
	t := cfg.TMDB
	base := []Option{
		WithRateLimit(t.RequestsPerSecond, t.Burst),
		WithBreaker(t.BreakerFailures, time.Duration(t.BreakerCooldownSeconds)*time.Second),
		WithRegion(t.Region),
	}
	if t.TimeoutSeconds > 0 {
		base = append(base, WithHTTPClient(newHTTPClient(time.Duration(t.TimeoutSeconds)*time.Second)))
	}
	client, err := New(t.APIKey, t.BaseURL, t.Language, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return NewSource(client, t), nil
}

// Client exposes the underlying API client.
func (s *Source) Client() *Client { return s.client }

// Discover returns the raw candidates for feed in list order with their hints.
func (s *Source) Discover(ctx context.Context, feed catalog.FeedType, now time.Time) ([]catalog.Candidate, error) {
	switch feed {
	case catalog.FeedToday:
		return s.trendingWithUpcoming(ctx, WindowDay, false)
	case catalog.FeedWeekly:
		return s.trendingWithUpcoming(ctx, WindowWeek, false)
	case catalog.FeedMonthly:
		return s.trendingWithUpcoming(ctx, WindowWeek, true)
	case catalog.FeedAnniversary:
		listings, err := s.client.DiscoverAnniversaries(ctx, now, s.cfg.AnniversaryYears, s.cfg.AnniversarySpreadDays, anniversaryMinVotes)
		if err != nil {
			return nil, err
		}
		merged := newMerger()
		for _, l := range listings {
			merged.add(l.Item, catalog.Hints{})
		}
		return merged.out, nil
	default:
		return nil, fmt.Errorf("discover: unknown feed type %q", feed)
	}
}

// trendingWithUpcoming merges the trending and upcoming lists. Upcoming
// positions are always recorded as hints; upcoming titles become candidates
// only when upcomingFirst is set.
func (s *Source) trendingWithUpcoming(ctx context.Context, window TimeWindow, upcomingFirst bool) ([]catalog.Candidate, error) {
	upcoming, err := s.client.Upcoming(ctx, s.cfg.UpcomingPages)
	if err != nil {
		return nil, err
	}
	trending, err := s.client.Trending(ctx, window, s.cfg.TrendingPages)
	if err != nil {
		return nil, err
	}

	upcomingRank := make(map[catalog.Key]int, len(upcoming))
	for _, l := range upcoming {
		upcomingRank[l.Item.Key()] = l.Position
	}
	trendingRank := make(map[catalog.Key]int, len(trending))
	for _, l := range trending {
		trendingRank[l.Item.Key()] = l.Position
	}
	hints := func(key catalog.Key) catalog.Hints {
		return catalog.Hints{TrendingRank: trendingRank[key], UpcomingRank: upcomingRank[key]}
	}

	merged := newMerger()
	if upcomingFirst {
		for _, l := range upcoming {
			merged.add(l.Item, hints(l.Item.Key()))
		}
	}
	for _, l := range trending {
		merged.add(l.Item, hints(l.Item.Key()))
	}
	return merged.out, nil
}

// Enrich replaces a discovered item with its full details record.
func (s *Source) Enrich(ctx context.Context, item catalog.Item) (catalog.Item, error) {
	return s.client.Details(ctx, item.Key())
}

// Ping checks catalog reachability.
func (s *Source) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Lookup fetches a single title by key.
func (s *Source) Lookup(ctx context.Context, key catalog.Key) (catalog.Item, error) {
	return s.client.Details(ctx, key)
}

type merger struct {
	seen map[catalog.Key]struct{}
	out  []catalog.Candidate
}

func newMerger() *merger {
	return &merger{seen: make(map[catalog.Key]struct{})}
}

func (m *merger) add(item catalog.Item, hints catalog.Hints) {
	key := item.Key()
	if _, ok := m.seen[key]; ok {
		return
	}
	m.seen[key] = struct{}{}
	m.out = append(m.out, catalog.Candidate{Item: item, Hints: hints})
}
