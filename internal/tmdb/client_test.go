package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/services"
	"marquee/internal/tmdb"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...tmdb.Option) *tmdb.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US", opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := tmdb.New("", "https://example.com", "en-US")
	if err == nil {
		t.Fatal("expected error when api key missing")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestMovieDetailsConvertsPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "key" || r.URL.Query().Get("language") != "en-US" {
			t.Errorf("missing query parameters: %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 603, "title": "The Matrix", "overview": "A hacker learns the truth.",
			"release_date": "1999-03-31", "popularity": 88.5, "vote_average": 8.2, "vote_count": 25000,
			"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}],
			"production_countries": [{"iso_3166_1": "US", "name": "United States of America"}],
			"origin_country": ["US"],
			"production_companies": [{"id": 174, "name": "Warner Bros. Pictures"}, {"id": 0, "name": " "}],
			"belongs_to_collection": {"id": 2344, "name": "The Matrix Collection"},
			"budget": 63000000, "runtime": 136, "video": false,
			"poster_path": "/p.jpg", "backdrop_path": "/b.jpg"
		}`))
	})

	details, err := client.MovieDetails(context.Background(), 603)
	if err != nil {
		t.Fatalf("MovieDetails returned error: %v", err)
	}
	movie := details.Item()
	if movie.Key() != (catalog.Key{ID: 603, MediaType: catalog.MediaMovie}) {
		t.Fatalf("unexpected key: %v", movie.Key())
	}
	if movie.Title != "The Matrix" || movie.Runtime != 136 || movie.Budget() != 63000000 {
		t.Fatalf("unexpected movie: %+v", movie)
	}
	if len(movie.GenreIDs) != 2 || movie.GenreIDs[1] != 878 {
		t.Fatalf("unexpected genres: %v", movie.GenreIDs)
	}
	if len(movie.Companies) != 1 || movie.Companies[0] != "Warner Bros. Pictures" {
		t.Fatalf("unexpected companies: %v", movie.Companies)
	}
	if movie.Collection() == nil || movie.Collection().Name != "The Matrix Collection" {
		t.Fatalf("expected collection, got %+v", movie.Collection())
	}
	if want := time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC); !movie.ReleaseDate.Equal(want) {
		t.Fatalf("unexpected release date: %v", movie.ReleaseDate)
	}
}

func TestTVDetailsConvertsPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1399" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"id": 1399, "name": "Game of Thrones", "first_air_date": "2011-04-17",
			"popularity": 300, "vote_average": 8.4, "vote_count": 22000,
			"genres": [{"id": 10765, "name": "Sci-Fi & Fantasy"}, {"id": 18, "name": "Drama"}],
			"origin_country": ["US"], "production_countries": [],
			"production_companies": [{"id": 1, "name": "Revolution Sun Studios"}],
			"networks": [{"id": 49, "name": "HBO"}],
			"number_of_episodes": 73, "number_of_seasons": 8, "type": "Scripted",
			"poster_path": "/p.jpg", "backdrop_path": "/b.jpg"
		}`))
	})

	item, err := client.Details(context.Background(), catalog.Key{ID: 1399, MediaType: catalog.MediaTV})
	if err != nil {
		t.Fatalf("Details returned error: %v", err)
	}
	show, ok := item.(*catalog.Show)
	if !ok {
		t.Fatalf("expected *catalog.Show, got %T", item)
	}
	if show.EpisodeCount != 73 || show.SeasonCount != 8 || show.ShowType != "Scripted" {
		t.Fatalf("unexpected show: %+v", show)
	}
	affiliations := show.Affiliations()
	if len(affiliations) != 2 || affiliations[0] != "HBO" {
		t.Fatalf("unexpected affiliations: %v", affiliations)
	}
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, tmdb.WithBreaker(1, time.Minute))

	for i := 0; i < 3; i++ {
		_, err := client.MovieDetails(context.Background(), 1)
		if !errors.Is(err, services.ErrNotFound) {
			t.Fatalf("attempt %d: expected not found, got %v", i, err)
		}
	}
	if hits.Load() != 3 {
		t.Fatalf("expected every request to reach the server, got %d", hits.Load())
	}
	if client.BreakerOpen() {
		t.Fatal("breaker should stay closed on 404")
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, tmdb.WithBreaker(2, time.Minute))

	for i := 0; i < 2; i++ {
		_, err := client.TVDetails(context.Background(), 5)
		if !errors.Is(err, services.ErrTransient) {
			t.Fatalf("attempt %d: expected transient error, got %v", i, err)
		}
	}
	_, err := client.TVDetails(context.Background(), 5)
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected breaker to reject request, got %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected rejected request to skip the server, got %d hits", hits.Load())
	}
	if !client.BreakerOpen() {
		t.Fatal("expected breaker to report open")
	}
}

func TestUnauthorizedIsConfigurationError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.MovieDetails(context.Background(), 1)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestDetailsRejectsInvalidIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request should not be sent")
	})

	if _, err := client.MovieDetails(context.Background(), 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := client.Details(context.Background(), catalog.Key{ID: 3, MediaType: "person"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRateLimitHonoursContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 1}`))
	}, tmdb.WithRateLimit(0.001, 1))

	if _, err := client.MovieDetails(context.Background(), 1); err != nil {
		t.Fatalf("first request should use the burst: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := client.MovieDetails(ctx, 1); err == nil {
		t.Fatal("expected limiter wait to fail once the context expires")
	}
}

func TestPingHitsConfigurationEndpoint(t *testing.T) {
	var path atomic.Value
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		_, _ = w.Write([]byte(`{"images": {"base_url": "http://image.tmdb.org/t/p/"}}`))
	})
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
	if got, _ := path.Load().(string); got != "/configuration" {
		t.Fatalf("expected /configuration, got %q", got)
	}
}
