package schedule

import (
	"time"

	"marquee/internal/catalog"
	"marquee/internal/dedup"
)

// Post is one scheduled slot for a title.
type Post struct {
	ID          int64            `json:"id"`
	Key         catalog.Key      `json:"key"`
	Source      catalog.FeedType `json:"source"`
	Title       string           `json:"title,omitempty"`
	RunID       string           `json:"run_id,omitempty"`
	ScheduledAt time.Time        `json:"scheduled_at"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Existing converts the post into the form the dedup engine consumes.
func (p Post) Existing() dedup.ExistingPost {
	return dedup.ExistingPost{
		Key:         p.Key,
		Source:      p.Source,
		ScheduledAt: p.ScheduledAt,
		Title:       p.Title,
	}
}
