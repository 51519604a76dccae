package tmdb

// listResult is one entry from a trending, upcoming, or discover page.
type listResult struct {
	ID            int64    `json:"id"`
	MediaType     string   `json:"media_type"`
	Title         string   `json:"title"`
	Name          string   `json:"name"`
	Overview      string   `json:"overview"`
	ReleaseDate   string   `json:"release_date"`
	FirstAirDate  string   `json:"first_air_date"`
	Popularity    float64  `json:"popularity"`
	VoteAverage   float64  `json:"vote_average"`
	VoteCount     int      `json:"vote_count"`
	GenreIDs      []int    `json:"genre_ids"`
	OriginCountry []string `json:"origin_country"`
	PosterPath    string   `json:"poster_path"`
	BackdropPath  string   `json:"backdrop_path"`
	Adult         bool     `json:"adult"`
	Video         bool     `json:"video"`
}

type page struct {
	Page         int          `json:"page"`
	Results      []listResult `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type country struct {
	ISO  string `json:"iso_3166_1"`
	Name string `json:"name"`
}

type company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type collection struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the /movie/{id} payload.
type MovieDetails struct {
	ID                  int64       `json:"id"`
	Title               string      `json:"title"`
	Overview            string      `json:"overview"`
	ReleaseDate         string      `json:"release_date"`
	Popularity          float64     `json:"popularity"`
	VoteAverage         float64     `json:"vote_average"`
	VoteCount           int         `json:"vote_count"`
	Genres              []genre     `json:"genres"`
	OriginCountry       []string    `json:"origin_country"`
	ProductionCountries []country   `json:"production_countries"`
	ProductionCompanies []company   `json:"production_companies"`
	BelongsToCollection *collection `json:"belongs_to_collection"`
	Budget              int64       `json:"budget"`
	Runtime             int         `json:"runtime"`
	Video               bool        `json:"video"`
	Status              string      `json:"status"`
	PosterPath          string      `json:"poster_path"`
	BackdropPath        string      `json:"backdrop_path"`
}

// TVDetails is the /tv/{id} payload.
type TVDetails struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Overview            string    `json:"overview"`
	FirstAirDate        string    `json:"first_air_date"`
	Popularity          float64   `json:"popularity"`
	VoteAverage         float64   `json:"vote_average"`
	VoteCount           int       `json:"vote_count"`
	Genres              []genre   `json:"genres"`
	OriginCountry       []string  `json:"origin_country"`
	ProductionCountries []country `json:"production_countries"`
	ProductionCompanies []company `json:"production_companies"`
	Networks            []company `json:"networks"`
	NumberOfEpisodes    int       `json:"number_of_episodes"`
	NumberOfSeasons     int       `json:"number_of_seasons"`
	Type                string    `json:"type"`
	PosterPath          string    `json:"poster_path"`
	BackdropPath        string    `json:"backdrop_path"`
}
