package filter

import (
	"fmt"
	"strings"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/rules"
)

// Rule names a step in the evaluation chain.
type Rule string

const (
	RuleRegion      Rule = "region"
	RulePopularity  Rule = "popularity"
	RuleGenre       Rule = "genre"
	RuleStudio      Rule = "studio"
	RuleImages      Rule = "images"
	RuleTitle       Rule = "title"
	RuleTrending    Rule = "trending"
	RuleAnniversary Rule = "anniversary"
)

// PassedAll is the final reason recorded for an item that cleared every rule.
const PassedAll = "passed all filters"

const (
	requiredCountry = "US"

	trendingRankLimit        = 150
	upcomingRankLimit        = 250
	monthlyUpcomingRankLimit = 300
	trendingFallbackPop      = 50
	monthlyFallbackPop       = 60

	anniversaryMinVotes   = 1000
	anniversaryMinAverage = 6.5
	anniversaryMinBudget  = 10_000_000

	minMovieRuntime  = 60
	minShowEpisodes  = 3
	scriptedShowType = "Scripted"
)

// Thresholds holds the numeric limits injected from configuration.
type Thresholds struct {
	Popularity map[catalog.FeedType]float64
	// MinVoteCount applies to released titles in the popularity rule.
	MinVoteCount int
	// StudioPopularityFloor is the popularity an unaffiliated title needs.
	StudioPopularityFloor float64
}

// ThresholdsFromConfig maps configuration onto engine thresholds.
func ThresholdsFromConfig(cfg config.Curation) Thresholds {
	return Thresholds{
		Popularity: map[catalog.FeedType]float64{
			catalog.FeedToday:       cfg.Popularity.Today,
			catalog.FeedWeekly:      cfg.Popularity.Weekly,
			catalog.FeedMonthly:     cfg.Popularity.Monthly,
			catalog.FeedAnniversary: cfg.Popularity.Anniversary,
		},
		MinVoteCount:          cfg.MinVoteCount,
		StudioPopularityFloor: cfg.StudioPopularityFloor,
	}
}

// Outcome is the result of evaluating one item.
type Outcome struct {
	Pass    bool     `json:"pass"`
	Reasons []string `json:"reasons"`
	// FailedRule is empty when Pass is true.
	FailedRule Rule `json:"failed_rule,omitempty"`
}

// Engine evaluates items against the rule chain.
type Engine struct {
	tables     *rules.Tables
	thresholds Thresholds
}

// New constructs a filter engine.
func New(tables *rules.Tables, thresholds Thresholds) *Engine {
	return &Engine{tables: tables, thresholds: thresholds}
}

type check func(e *Engine, item catalog.Item, f catalog.Fields, feed catalog.FeedType, hints catalog.Hints, now time.Time) (bool, string)

type step struct {
	rule  Rule
	check check
	// onlyFor restricts the step to a single feed type when set.
	onlyFor catalog.FeedType
}

var chain = []step{
	{rule: RuleRegion, check: checkRegion},
	{rule: RulePopularity, check: checkPopularity},
	{rule: RuleGenre, check: checkGenre},
	{rule: RuleStudio, check: checkStudio},
	{rule: RuleImages, check: checkImages},
	{rule: RuleTitle, check: checkTitle},
	{rule: RuleTrending, check: checkTrending},
	{rule: RuleAnniversary, check: checkAnniversary, onlyFor: catalog.FeedAnniversary},
}

// Evaluate runs the rule chain for item and stops at the first failure.
func (e *Engine) Evaluate(item catalog.Item, feed catalog.FeedType, hints catalog.Hints, now time.Time) Outcome {
	if item == nil {
		return Outcome{Reasons: []string{"no item supplied"}, FailedRule: RuleRegion}
	}
	fields := item.Common()
	outcome := Outcome{Reasons: make([]string, 0, len(chain)+1)}
	for _, s := range chain {
		if s.onlyFor != "" && s.onlyFor != feed {
			continue
		}
		ok, detail := s.check(e, item, fields, feed, hints, now)
		outcome.Reasons = append(outcome.Reasons, fmt.Sprintf("%s: %s", s.rule, detail))
		if !ok {
			outcome.FailedRule = s.rule
			return outcome
		}
	}
	outcome.Pass = true
	outcome.Reasons = append(outcome.Reasons, PassedAll)
	return outcome
}

func checkRegion(_ *Engine, _ catalog.Item, f catalog.Fields, _ catalog.FeedType, _ catalog.Hints, _ time.Time) (bool, string) {
	countries := f.Countries()
	if len(countries) == 0 {
		return false, "no production or origin country listed"
	}
	for _, c := range countries {
		if strings.EqualFold(strings.TrimSpace(c), requiredCountry) {
			return true, "US production or origin"
		}
	}
	return false, fmt.Sprintf("not a US title (%s)", strings.Join(countries, ", "))
}

func checkPopularity(e *Engine, _ catalog.Item, f catalog.Fields, feed catalog.FeedType, _ catalog.Hints, now time.Time) (bool, string) {
	threshold, ok := e.thresholds.Popularity[feed]
	if !ok {
		return false, fmt.Sprintf("no popularity threshold for feed %q", feed)
	}
	if f.Popularity < threshold {
		return false, fmt.Sprintf("popularity %.1f below %s threshold %.0f", f.Popularity, feed, threshold)
	}
	if catalog.Released(f, now) && f.VoteCount < e.thresholds.MinVoteCount {
		return false, fmt.Sprintf("released with %d votes, need %d", f.VoteCount, e.thresholds.MinVoteCount)
	}
	return true, fmt.Sprintf("popularity %.1f meets %s threshold %.0f", f.Popularity, feed, threshold)
}

func checkGenre(e *Engine, _ catalog.Item, f catalog.Fields, _ catalog.FeedType, _ catalog.Hints, _ time.Time) (bool, string) {
	if id, rejected := e.tables.RejectedGenre(f.GenreIDs); rejected {
		return false, fmt.Sprintf("rejected genre %s", catalog.GenreName(id))
	}
	approved := e.tables.ApprovedGenres(f.GenreIDs)
	if len(approved) == 0 {
		return false, "no approved genre"
	}
	return true, fmt.Sprintf("approved genre %s", catalog.GenreName(approved[0]))
}

func checkStudio(e *Engine, item catalog.Item, f catalog.Fields, _ catalog.FeedType, _ catalog.Hints, _ time.Time) (bool, string) {
	if studio, ok := e.tables.MajorStudio(item); ok {
		return true, fmt.Sprintf("major studio %s", studio)
	}
	if c := item.Collection(); c != nil {
		return true, fmt.Sprintf("part of %s", collectionLabel(c))
	}
	if f.Popularity < e.thresholds.StudioPopularityFloor {
		return false, fmt.Sprintf("independent title with popularity %.1f below %.0f", f.Popularity, e.thresholds.StudioPopularityFloor)
	}
	return true, fmt.Sprintf("independent title with popularity %.1f", f.Popularity)
}

func checkImages(_ *Engine, _ catalog.Item, f catalog.Fields, _ catalog.FeedType, _ catalog.Hints, _ time.Time) (bool, string) {
	poster := strings.TrimSpace(f.PosterPath) != ""
	backdrop := strings.TrimSpace(f.BackdropPath) != ""
	switch {
	case !poster && !backdrop:
		return false, "missing poster and backdrop"
	case !poster:
		return false, "missing poster"
	case !backdrop:
		return false, "missing backdrop"
	}
	return true, "poster and backdrop present"
}

func checkTitle(e *Engine, item catalog.Item, f catalog.Fields, _ catalog.FeedType, _ catalog.Hints, _ time.Time) (bool, string) {
	if keyword, ok := e.tables.BlacklistedKeyword(f.Title, f.Overview); ok {
		return false, fmt.Sprintf("blacklisted keyword %q", keyword)
	}
	switch v := item.(type) {
	case *catalog.Movie:
		if v.DirectToVideo {
			return false, "direct-to-video release"
		}
		if v.Runtime < minMovieRuntime {
			return false, fmt.Sprintf("runtime %d min under %d", v.Runtime, minMovieRuntime)
		}
	case *catalog.Show:
		if e.tables.RejectedShowType(v.ShowType) {
			return false, fmt.Sprintf("rejected show type %s", v.ShowType)
		}
		if strings.EqualFold(v.ShowType, scriptedShowType) && len(v.Networks) == 0 {
			return false, "unvetted scripted show with no network"
		}
		if v.EpisodeCount < minShowEpisodes {
			return false, fmt.Sprintf("%d episodes, need %d", v.EpisodeCount, minShowEpisodes)
		}
	}
	return true, "eligible title"
}

func checkTrending(_ *Engine, _ catalog.Item, f catalog.Fields, feed catalog.FeedType, hints catalog.Hints, _ time.Time) (bool, string) {
	switch feed {
	case catalog.FeedToday, catalog.FeedWeekly:
		if hints.HasTrending() && hints.TrendingRank <= trendingRankLimit {
			return true, fmt.Sprintf("trending rank %d", hints.TrendingRank)
		}
		if hints.HasUpcoming() && hints.UpcomingRank <= upcomingRankLimit {
			return true, fmt.Sprintf("upcoming rank %d", hints.UpcomingRank)
		}
		if !hints.Empty() {
			return false, fmt.Sprintf("ranks outside limits (trending %d, upcoming %d)", hints.TrendingRank, hints.UpcomingRank)
		}
		if f.Popularity >= trendingFallbackPop {
			return true, fmt.Sprintf("no rank hints, popularity %.1f", f.Popularity)
		}
		return false, fmt.Sprintf("no rank hints and popularity %.1f below %d", f.Popularity, trendingFallbackPop)
	case catalog.FeedMonthly:
		if hints.HasUpcoming() && hints.UpcomingRank <= monthlyUpcomingRankLimit {
			return true, fmt.Sprintf("upcoming rank %d", hints.UpcomingRank)
		}
		if f.Popularity >= monthlyFallbackPop {
			return true, fmt.Sprintf("popularity %.1f", f.Popularity)
		}
		return false, fmt.Sprintf("not upcoming and popularity %.1f below %d", f.Popularity, monthlyFallbackPop)
	case catalog.FeedAnniversary:
		if ok, detail := acclaimed(f); !ok {
			return false, detail
		}
		return true, fmt.Sprintf("%d votes at %.1f", f.VoteCount, f.VoteAverage)
	default:
		return false, fmt.Sprintf("unknown feed %q", feed)
	}
}

func checkAnniversary(_ *Engine, item catalog.Item, f catalog.Fields, _ catalog.FeedType, _ catalog.Hints, _ time.Time) (bool, string) {
	if ok, detail := acclaimed(f); !ok {
		return false, detail
	}
	if budget := item.Budget(); budget > 0 && budget < anniversaryMinBudget {
		return false, fmt.Sprintf("budget $%d under $%d", budget, anniversaryMinBudget)
	}
	return true, "eligible for anniversary"
}

func acclaimed(f catalog.Fields) (bool, string) {
	if f.VoteCount < anniversaryMinVotes {
		return false, fmt.Sprintf("%d votes, need %d", f.VoteCount, anniversaryMinVotes)
	}
	if f.VoteAverage < anniversaryMinAverage {
		return false, fmt.Sprintf("vote average %.1f below %.1f", f.VoteAverage, anniversaryMinAverage)
	}
	return true, ""
}

func collectionLabel(c *catalog.Collection) string {
	if strings.TrimSpace(c.Name) != "" {
		return c.Name
	}
	return fmt.Sprintf("collection %d", c.ID)
}
