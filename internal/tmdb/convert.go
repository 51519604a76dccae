package tmdb

import (
	"strings"
	"time"

	"marquee/internal/catalog"
)

const dateLayout = "2006-01-02"

func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// mediaTypeOf resolves a list entry's media type. Entries from typed
// endpoints carry no media_type, so fallback supplies it.
func mediaTypeOf(r listResult, fallback catalog.MediaType) (catalog.MediaType, bool) {
	if r.MediaType == "" {
		return fallback, fallback != ""
	}
	mt, err := catalog.ParseMediaType(r.MediaType)
	if err != nil {
		return "", false
	}
	return mt, true
}

// itemFromList builds an un-enriched item from a list entry. Fields only
// available from the details endpoints stay zero.
func itemFromList(r listResult, mt catalog.MediaType) catalog.Item {
	fields := catalog.Fields{
		ID:           r.ID,
		Overview:     r.Overview,
		Popularity:   r.Popularity,
		VoteAverage:  r.VoteAverage,
		VoteCount:    r.VoteCount,
		GenreIDs:     append([]int(nil), r.GenreIDs...),
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
	}
	if len(r.OriginCountry) > 0 {
		fields.OriginCountries = append([]string(nil), r.OriginCountry...)
	}
	if mt == catalog.MediaTV {
		fields.Title = r.Name
		fields.ReleaseDate = parseDate(r.FirstAirDate)
		return &catalog.Show{Fields: fields}
	}
	fields.Title = r.Title
	fields.ReleaseDate = parseDate(r.ReleaseDate)
	return &catalog.Movie{Fields: fields, DirectToVideo: r.Video}
}

// Item converts movie details into a catalog movie.
func (d *MovieDetails) Item() *catalog.Movie {
	movie := &catalog.Movie{
		Fields: catalog.Fields{
			ID:                  d.ID,
			Title:               d.Title,
			Overview:            d.Overview,
			ReleaseDate:         parseDate(d.ReleaseDate),
			Popularity:          d.Popularity,
			VoteAverage:         d.VoteAverage,
			VoteCount:           d.VoteCount,
			GenreIDs:            genreIDs(d.Genres),
			OriginCountries:     append([]string(nil), d.OriginCountry...),
			ProductionCountries: countryCodes(d.ProductionCountries),
			Companies:           companyNames(d.ProductionCompanies),
			PosterPath:          d.PosterPath,
			BackdropPath:        d.BackdropPath,
		},
		Runtime:       d.Runtime,
		BudgetUSD:     d.Budget,
		DirectToVideo: d.Video,
	}
	if d.BelongsToCollection != nil && d.BelongsToCollection.ID > 0 {
		movie.BelongsTo = &catalog.Collection{ID: d.BelongsToCollection.ID, Name: d.BelongsToCollection.Name}
	}
	return movie
}

// Item converts TV details into a catalog show.
func (d *TVDetails) Item() *catalog.Show {
	return &catalog.Show{
		Fields: catalog.Fields{
			ID:                  d.ID,
			Title:               d.Name,
			Overview:            d.Overview,
			ReleaseDate:         parseDate(d.FirstAirDate),
			Popularity:          d.Popularity,
			VoteAverage:         d.VoteAverage,
			VoteCount:           d.VoteCount,
			GenreIDs:            genreIDs(d.Genres),
			OriginCountries:     append([]string(nil), d.OriginCountry...),
			ProductionCountries: countryCodes(d.ProductionCountries),
			Companies:           companyNames(d.ProductionCompanies),
			PosterPath:          d.PosterPath,
			BackdropPath:        d.BackdropPath,
		},
		Networks:     companyNames(d.Networks),
		EpisodeCount: d.NumberOfEpisodes,
		SeasonCount:  d.NumberOfSeasons,
		ShowType:     strings.TrimSpace(d.Type),
	}
}

func genreIDs(genres []genre) []int {
	out := make([]int, 0, len(genres))
	for _, g := range genres {
		out = append(out, g.ID)
	}
	return out
}

func countryCodes(countries []country) []string {
	out := make([]string, 0, len(countries))
	for _, c := range countries {
		if code := strings.TrimSpace(c.ISO); code != "" {
			out = append(out, code)
		}
	}
	return out
}

func companyNames(companies []company) []string {
	out := make([]string, 0, len(companies))
	for _, c := range companies {
		if name := strings.TrimSpace(c.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
