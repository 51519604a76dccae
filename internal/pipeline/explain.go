package pipeline

import (
	"context"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/dedup"
	"marquee/internal/filter"
	"marquee/internal/scoring"
	"marquee/internal/services"
)

// Explanation shows how a single title fares in a feed.
type Explanation struct {
	Key    catalog.Key        `json:"key"`
	Title  string             `json:"title"`
	Feed   catalog.FeedType   `json:"feed"`
	Filter filter.Outcome     `json:"filter"`
	Score  scoring.ScoredItem `json:"score"`
	Dedup  dedup.Decision     `json:"dedup"`
	// CooldownDays is how long until the title clears every window that
	// applies to Feed.
	CooldownDays int `json:"cooldown_days"`
}

// Explain evaluates item against every stage without applying batch limits.
// The score is computed even when a filter rejects the item.
func (c *Curator) Explain(ctx context.Context, item catalog.Item, hints catalog.Hints, feed catalog.FeedType) (*Explanation, error) {
	if item == nil {
		return nil, services.Wrap(services.ErrValidation, "explain", "explain item", "no item supplied", nil)
	}
	now := c.now()
	var posts []dedup.ExistingPost
	if c.posts != nil {
		var err error
		posts, err = c.posts.ExistingPosts(services.WithStage(ctx, stagePosts), now.Add(-c.windows.Lookback()))
		if err != nil {
			return nil, services.Wrap(services.ErrExternal, stagePosts, "load existing posts", "", err)
		}
	}
	decisions, _ := c.dedup.Deduplicate(feed, []catalog.Item{item}, posts, nil, now)
	return &Explanation{
		Key:          item.Key(),
		Title:        item.Common().Title,
		Feed:         feed,
		Filter:       c.filter.Evaluate(item, feed, hints, now),
		Score:        c.scoring.Score(item, feed, hints, now),
		Dedup:        decisions[0],
		CooldownDays: c.dedup.Cooldown(feed, item.Key(), posts, now),
	}, nil
}

// Cooldown reports the days until key may be posted to feed again.
func (c *Curator) Cooldown(ctx context.Context, key catalog.Key, feed catalog.FeedType) (int, error) {
	if c.posts == nil {
		return 0, nil
	}
	now := c.now()
	posts, err := c.posts.ExistingPosts(ctx, now.Add(-c.windows.Lookback()))
	if err != nil {
		return 0, services.Wrap(services.ErrExternal, stagePosts, "load existing posts", "", err)
	}
	return c.dedup.Cooldown(feed, key, posts, now), nil
}

// Now exposes the curator clock so callers stamp records consistently.
func (c *Curator) Now() time.Time { return c.now() }
