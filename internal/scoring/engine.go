package scoring

import (
	"math"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/rules"
)

const (
	popularityWeight = 0.5
	popularityCap    = 100
	todayMultiplier  = 1.5
	weeklyMultiplier = 1.2

	trendingBase        = 50
	trendingRankDivisor = 3
	upcomingRankDivisor = 5

	pointsPerGenre   = 10
	genreCap         = 30
	highDemandBonus  = 10
	majorStudioBonus = 40
	topTierBonus     = 20
	collectionBonus  = 25
	releaseHypeBonus = 15
	releaseHypeDays  = 7
)

// Breakdown is the per-component contribution to a score.
type Breakdown struct {
	Popularity  float64 `json:"popularity"`
	Trending    float64 `json:"trending"`
	Genre       float64 `json:"genre"`
	Studio      float64 `json:"studio"`
	VotePenalty float64 `json:"vote_penalty"`
	Collection  float64 `json:"collection"`
	Hype        float64 `json:"hype"`
}

// Total sums the components, floored at zero.
func (b Breakdown) Total() float64 {
	sum := b.Popularity + b.Trending + b.Genre + b.Studio + b.VotePenalty + b.Collection + b.Hype
	return math.Max(0, sum)
}

// ScoredItem pairs an item with its score. Rank is zero until Prioritize runs.
type ScoredItem struct {
	Item      catalog.Item     `json:"item"`
	Feed      catalog.FeedType `json:"feed"`
	Hints     catalog.Hints    `json:"hints"`
	Score     float64          `json:"score"`
	Breakdown Breakdown        `json:"breakdown"`
	Rank      int              `json:"rank,omitempty"`
}

// Engine scores items against the shared rule tables.
type Engine struct {
	tables *rules.Tables
}

// New constructs a scoring engine.
func New(tables *rules.Tables) *Engine {
	return &Engine{tables: tables}
}

// Score computes the breakdown and total for one item.
func (e *Engine) Score(item catalog.Item, feed catalog.FeedType, hints catalog.Hints, now time.Time) ScoredItem {
	f := item.Common()
	b := Breakdown{
		Popularity:  popularityPoints(f.Popularity, feed),
		Trending:    trendingPoints(hints),
		Genre:       e.genrePoints(f.GenreIDs),
		Studio:      e.studioPoints(item),
		VotePenalty: votePenalty(f.VoteCount),
		Hype:        hypePoints(f, feed, now),
	}
	if item.Collection() != nil {
		b.Collection = collectionBonus
	}
	return ScoredItem{
		Item:      item,
		Feed:      feed,
		Hints:     hints,
		Score:     b.Total(),
		Breakdown: b,
	}
}

func popularityPoints(popularity float64, feed catalog.FeedType) float64 {
	points := math.Min(math.Max(popularity, 0)*popularityWeight, popularityCap)
	switch feed {
	case catalog.FeedToday:
		points *= todayMultiplier
	case catalog.FeedWeekly:
		points *= weeklyMultiplier
	}
	return points
}

func trendingPoints(hints catalog.Hints) float64 {
	var best float64
	if hints.HasTrending() {
		best = math.Max(best, trendingBase-float64(hints.TrendingRank)/trendingRankDivisor)
	}
	if hints.HasUpcoming() {
		best = math.Max(best, trendingBase-float64(hints.UpcomingRank)/upcomingRankDivisor)
	}
	return best
}

func (e *Engine) genrePoints(ids []int) float64 {
	points := math.Min(float64(len(e.tables.ApprovedGenres(ids))*pointsPerGenre), genreCap)
	if e.tables.HighDemand(ids) {
		points += highDemandBonus
	}
	return points
}

func (e *Engine) studioPoints(item catalog.Item) float64 {
	if _, ok := e.tables.MajorStudio(item); !ok {
		return 0
	}
	points := float64(majorStudioBonus)
	if _, ok := e.tables.TopTierStudio(item); ok {
		points += topTierBonus
	}
	return points
}

func votePenalty(votes int) float64 {
	switch {
	case votes < 500:
		return -30
	case votes < 1000:
		return -15
	case votes < 2000:
		return -5
	default:
		return 0
	}
}

func hypePoints(f catalog.Fields, feed catalog.FeedType, now time.Time) float64 {
	var points float64
	switch {
	case f.VoteAverage >= 8:
		points = 20
	case f.VoteAverage >= 7:
		points = 10
	case f.VoteAverage >= 6:
		points = 5
	}
	if (feed == catalog.FeedToday || feed == catalog.FeedWeekly) && nearRelease(f.ReleaseDate, now) {
		points += releaseHypeBonus
	}
	return points
}

func nearRelease(release, now time.Time) bool {
	if release.IsZero() {
		return false
	}
	delta := release.Sub(now)
	if delta < 0 {
		delta = -delta
	}
	return delta <= releaseHypeDays*24*time.Hour
}
