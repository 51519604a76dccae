package scoring

import (
	"cmp"
	"math"
	"slices"

	"marquee/internal/catalog"
)

// tieEpsilon is the score gap under which two items are considered tied.
const tieEpsilon = 0.1

const (
	confidenceScoreScale = 300
	confidenceVoteScale  = 5000
	confidenceScoreShare = 0.6
	confidenceVoteShare  = 0.4
)

// BlockbusterRating is voteAverage * log10(voteCount + 1).
func BlockbusterRating(item catalog.Item) float64 {
	f := item.Common()
	return f.VoteAverage * math.Log10(float64(max(f.VoteCount, 0))+1)
}

// Prioritize returns a ranked copy of items. A maxItems of zero or less keeps
// every item. The input slice is left untouched.
func Prioritize(items []ScoredItem, maxItems int) []ScoredItem {
	ordered := slices.Clone(items)
	slices.SortStableFunc(ordered, compare)
	if maxItems > 0 && len(ordered) > maxItems {
		ordered = ordered[:maxItems]
	}
	for i := range ordered {
		ordered[i].Rank = i + 1
	}
	return ordered
}

// compare orders a before b when it returns a negative value.
func compare(a, b ScoredItem) int {
	if math.Abs(a.Score-b.Score) >= tieEpsilon {
		return cmp.Compare(b.Score, a.Score)
	}
	af, bf := a.Item.Common(), b.Item.Common()
	if c := cmp.Compare(BlockbusterRating(b.Item), BlockbusterRating(a.Item)); c != 0 {
		return c
	}
	if c := cmp.Compare(bf.Popularity, af.Popularity); c != 0 {
		return c
	}
	if c := cmp.Compare(bf.VoteCount, af.VoteCount); c != 0 {
		return c
	}
	if c := cmp.Compare(bf.VoteAverage, af.VoteAverage); c != 0 {
		return c
	}
	if c := cmp.Compare(hasCollection(b.Item), hasCollection(a.Item)); c != 0 {
		return c
	}
	ak, bk := a.Item.Key(), b.Item.Key()
	if c := cmp.Compare(ak.MediaType, bk.MediaType); c != 0 {
		return c
	}
	return cmp.Compare(ak.ID, bk.ID)
}

func hasCollection(item catalog.Item) int {
	if item.Collection() != nil {
		return 1
	}
	return 0
}

// Confidence blends the average score and average vote count of a batch into
// a 0-100 percentage. An empty batch has zero confidence.
func Confidence(items []ScoredItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var scoreSum, voteSum float64
	for _, item := range items {
		scoreSum += item.Score
		voteSum += float64(item.Item.Common().VoteCount)
	}
	n := float64(len(items))
	blend := confidenceScoreShare*(scoreSum/n/confidenceScoreScale) + confidenceVoteShare*(voteSum/n/confidenceVoteScale)
	return math.Min(100, math.Max(0, blend*100))
}
