package testsupport

import (
	"time"

	"marquee/internal/catalog"
)

// ReleaseDate is the release date used by the eligible fixtures.
var ReleaseDate = time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)

// EligibleMovie returns a movie that passes every filter for every feed type
// under the default configuration.
func EligibleMovie(id int64) *catalog.Movie {
	return &catalog.Movie{
		Fields: catalog.Fields{
			ID:                  id,
			Title:               "Fixture Movie",
			Overview:            "A crew of unlikely heroes races to save the city.",
			ReleaseDate:         ReleaseDate,
			Popularity:          80,
			VoteAverage:         7.4,
			VoteCount:           4200,
			GenreIDs:            []int{28, 12},
			ProductionCountries: []string{"US"},
			Companies:           []string{"Warner Bros. Pictures"},
			PosterPath:          "/poster.jpg",
			BackdropPath:        "/backdrop.jpg",
		},
		Runtime:   124,
		BudgetUSD: 150_000_000,
	}
}

// EligibleShow returns a scripted show that passes every filter for every
// feed type under the default configuration.
func EligibleShow(id int64) *catalog.Show {
	return &catalog.Show{
		Fields: catalog.Fields{
			ID:              id,
			Title:           "Fixture Show",
			Overview:        "Rival families fight over a fading empire.",
			ReleaseDate:     ReleaseDate,
			Popularity:      90,
			VoteAverage:     8.1,
			VoteCount:       2600,
			GenreIDs:        []int{18, 10765},
			OriginCountries: []string{"US"},
			PosterPath:      "/poster.jpg",
			BackdropPath:    "/backdrop.jpg",
		},
		Networks:     []string{"HBO"},
		EpisodeCount: 16,
		SeasonCount:  2,
		ShowType:     "Scripted",
	}
}
