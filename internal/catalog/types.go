package catalog

import (
	"fmt"
	"strings"
)

// MediaType distinguishes movie records from TV records.
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)

// ParseMediaType normalizes user or API supplied media type strings.
func ParseMediaType(value string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie", "movies", "film":
		return MediaMovie, nil
	case "tv", "show", "series":
		return MediaTV, nil
	default:
		return "", fmt.Errorf("unknown media type %q", value)
	}
}

// FeedType is the scheduling category that drives thresholds, weights, and
// dedup windows.
type FeedType string

const (
	FeedToday       FeedType = "today"
	FeedWeekly      FeedType = "weekly"
	FeedMonthly     FeedType = "monthly"
	FeedAnniversary FeedType = "anniversary"
)

// FeedTypes lists every feed type in display order.
func FeedTypes() []FeedType {
	return []FeedType{FeedToday, FeedWeekly, FeedMonthly, FeedAnniversary}
}

// ParseFeedType validates a feed type string.
func ParseFeedType(value string) (FeedType, error) {
	feed := FeedType(strings.ToLower(strings.TrimSpace(value)))
	switch feed {
	case FeedToday, FeedWeekly, FeedMonthly, FeedAnniversary:
		return feed, nil
	default:
		return "", fmt.Errorf("unknown feed type %q (want today, weekly, monthly, or anniversary)", value)
	}
}

// Key identifies a title across catalog fetches and scheduled posts.
type Key struct {
	ID        int64     `json:"id"`
	MediaType MediaType `json:"media_type"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.MediaType, k.ID)
}

// Hints carries optional external ranking positions. A zero rank means the
// title did not appear in that list.
type Hints struct {
	TrendingRank int `json:"trending_rank,omitempty"`
	UpcomingRank int `json:"upcoming_rank,omitempty"`
}

// HasTrending reports whether a trending position was supplied.
func (h Hints) HasTrending() bool { return h.TrendingRank > 0 }

// HasUpcoming reports whether an upcoming position was supplied.
func (h Hints) HasUpcoming() bool { return h.UpcomingRank > 0 }

// Empty reports whether neither hint is present.
func (h Hints) Empty() bool { return !h.HasTrending() && !h.HasUpcoming() }

// Candidate is a discovered item along with the ranking hints that came with
// it.
type Candidate struct {
	Item  Item  `json:"item"`
	Hints Hints `json:"hints"`
}
