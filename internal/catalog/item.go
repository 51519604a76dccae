package catalog

import "time"

// Fields holds the metadata shared by movies and shows. Zero values mean the
// catalog did not supply the field.
type Fields struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	Overview            string    `json:"overview,omitempty"`
	ReleaseDate         time.Time `json:"release_date,omitempty"`
	Popularity          float64   `json:"popularity"`
	VoteAverage         float64   `json:"vote_average"`
	VoteCount           int       `json:"vote_count"`
	GenreIDs            []int     `json:"genre_ids,omitempty"`
	OriginCountries     []string  `json:"origin_countries,omitempty"`
	ProductionCountries []string  `json:"production_countries,omitempty"`
	Companies           []string  `json:"companies,omitempty"`
	PosterPath          string    `json:"poster_path,omitempty"`
	BackdropPath        string    `json:"backdrop_path,omitempty"`
}

// Collection is a franchise grouping a movie belongs to.
type Collection struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Item is the projection the engines consume.
type Item interface {
	Key() Key
	Common() Fields
	// Affiliations lists studios and networks used for studio matching.
	Affiliations() []string
	// Collection returns nil when the title is not part of a franchise.
	Collection() *Collection
	// Budget is the production budget in USD, or 0 when unknown.
	Budget() int64
}

// Movie is the film case of Item.
type Movie struct {
	Fields
	Runtime       int         `json:"runtime,omitempty"`
	BudgetUSD     int64       `json:"budget,omitempty"`
	BelongsTo     *Collection `json:"collection,omitempty"`
	DirectToVideo bool        `json:"direct_to_video,omitempty"`
}

var _ Item = (*Movie)(nil)

func (m *Movie) Key() Key { return Key{ID: m.ID, MediaType: MediaMovie} }

func (m *Movie) Common() Fields { return m.Fields }

func (m *Movie) Affiliations() []string { return m.Companies }

func (m *Movie) Collection() *Collection { return m.BelongsTo }

func (m *Movie) Budget() int64 { return m.BudgetUSD }

// Show is the TV case of Item.
type Show struct {
	Fields
	Networks     []string `json:"networks,omitempty"`
	EpisodeCount int      `json:"episode_count,omitempty"`
	SeasonCount  int      `json:"season_count,omitempty"`
	// ShowType is the catalog classification (Scripted, Reality, ...).
	ShowType string `json:"show_type,omitempty"`
}

var _ Item = (*Show)(nil)

func (s *Show) Key() Key { return Key{ID: s.ID, MediaType: MediaTV} }

func (s *Show) Common() Fields { return s.Fields }

func (s *Show) Affiliations() []string {
	out := make([]string, 0, len(s.Networks)+len(s.Companies))
	out = append(out, s.Networks...)
	return append(out, s.Companies...)
}

func (s *Show) Collection() *Collection { return nil }

func (s *Show) Budget() int64 { return 0 }

// Released reports whether the item's date is known and on or before now.
// Unknown dates count as released so vote requirements still apply.
func Released(f Fields, now time.Time) bool {
	if f.ReleaseDate.IsZero() {
		return true
	}
	return !f.ReleaseDate.After(now)
}

// Countries merges production and origin countries without duplicates.
func (f Fields) Countries() []string {
	seen := make(map[string]struct{}, len(f.ProductionCountries)+len(f.OriginCountries))
	out := make([]string, 0, len(f.ProductionCountries)+len(f.OriginCountries))
	for _, list := range [][]string{f.ProductionCountries, f.OriginCountries} {
		for _, c := range list {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
