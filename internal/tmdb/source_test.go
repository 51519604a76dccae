package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/tmdb"
)

const trendingPayload = `{"page": 1, "total_pages": 1, "results": [
	{"id": 10, "media_type": "movie", "title": "Trending Movie", "popularity": 70, "genre_ids": [28], "release_date": "2026-10-10"},
	{"id": 99, "media_type": "person", "name": "Some Actor"},
	{"id": 20, "media_type": "tv", "name": "Trending Show", "origin_country": ["US"], "first_air_date": "2026-09-01"},
	{"id": 30, "media_type": "movie", "title": "Both Lists"}
]}`

const upcomingPayload = `{"page": 1, "total_pages": 1, "results": [
	{"id": 30, "title": "Both Lists"},
	{"id": 40, "title": "Upcoming Only", "video": true}
]}`

func newTestSource(t *testing.T, handler http.HandlerFunc) *tmdb.Source {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.TMDB.APIKey = "key"
	cfg.TMDB.BaseURL = server.URL
	cfg.TMDB.TrendingPages = 3
	cfg.TMDB.UpcomingPages = 2
	source, err := tmdb.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	return source
}

func listHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/trending/all/week", "/trending/all/day":
			_, _ = w.Write([]byte(trendingPayload))
		case "/movie/upcoming":
			if r.URL.Query().Get("region") != "US" {
				t.Errorf("expected region query, got %q", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(upcomingPayload))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func keysOf(candidates []catalog.Candidate) []catalog.Key {
	out := make([]catalog.Key, len(candidates))
	for i, c := range candidates {
		out[i] = c.Item.Key()
	}
	return out
}

func TestDiscoverWeeklyUsesTrendingWithUpcomingHints(t *testing.T) {
	source := newTestSource(t, listHandler(t))

	candidates, err := source.Discover(context.Background(), catalog.FeedWeekly, time.Now())
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	keys := keysOf(candidates)
	want := []catalog.Key{{ID: 10, MediaType: catalog.MediaMovie}, {ID: 20, MediaType: catalog.MediaTV}, {ID: 30, MediaType: catalog.MediaMovie}}
	if len(keys) != len(want) {
		t.Fatalf("unexpected candidates: %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("candidate %d = %v, want %v", i, keys[i], want[i])
		}
	}
	if candidates[0].Hints != (catalog.Hints{TrendingRank: 1}) {
		t.Fatalf("unexpected hints for first candidate: %+v", candidates[0].Hints)
	}
	if candidates[1].Hints.TrendingRank != 2 {
		t.Fatalf("person entries should not consume a position: %+v", candidates[1].Hints)
	}
	if candidates[2].Hints != (catalog.Hints{TrendingRank: 3, UpcomingRank: 1}) {
		t.Fatalf("unexpected hints for shared title: %+v", candidates[2].Hints)
	}
	show := candidates[1].Item.(*catalog.Show)
	if show.Title != "Trending Show" || len(show.OriginCountries) != 1 {
		t.Fatalf("unexpected show conversion: %+v", show)
	}
}

func TestDiscoverMonthlyLeadsWithUpcoming(t *testing.T) {
	source := newTestSource(t, listHandler(t))

	candidates, err := source.Discover(context.Background(), catalog.FeedMonthly, time.Now())
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	keys := keysOf(candidates)
	if len(keys) != 4 || keys[0].ID != 30 || keys[1].ID != 40 || keys[2].ID != 10 || keys[3].ID != 20 {
		t.Fatalf("unexpected order: %v", keys)
	}
	movie := candidates[1].Item.(*catalog.Movie)
	if !movie.DirectToVideo {
		t.Fatal("expected video flag to carry into direct-to-video")
	}
	if candidates[1].Hints != (catalog.Hints{UpcomingRank: 2}) {
		t.Fatalf("unexpected hints: %+v", candidates[1].Hints)
	}
}

func TestDiscoverAnniversaryQueriesShiftedDateRanges(t *testing.T) {
	var (
		mu     sync.Mutex
		ranges []string
	)
	source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		mu.Lock()
		ranges = append(ranges, q.Get("primary_release_date.gte")+".."+q.Get("primary_release_date.lte"))
		mu.Unlock()
		if q.Get("vote_count.gte") != "1000" {
			t.Errorf("expected vote floor, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"page": 1, "total_pages": 1, "results": [{"id": 7, "title": "Classic"}]}`))
	})

	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	candidates, err := source.Discover(context.Background(), catalog.FeedAnniversary, now)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected duplicate results across years to merge, got %d", len(candidates))
	}
	if len(ranges) != 8 {
		t.Fatalf("expected one query per anniversary year, got %d", len(ranges))
	}
	if ranges[1] != "2016-10-12..2016-10-18" {
		t.Fatalf("unexpected 10-year range: %q", ranges[1])
	}
	if !candidates[0].Hints.Empty() {
		t.Fatalf("anniversary candidates carry no hints: %+v", candidates[0].Hints)
	}
}

func TestDiscoverRejectsUnknownFeed(t *testing.T) {
	source := newTestSource(t, listHandler(t))
	if _, err := source.Discover(context.Background(), catalog.FeedType("yearly"), time.Now()); err == nil {
		t.Fatal("expected error for unknown feed")
	}
}

func TestNewFromConfigRequiresKey(t *testing.T) {
	cfg := config.Default()
	if _, err := tmdb.NewFromConfig(&cfg); err == nil {
		t.Fatal("expected error without api key")
	}
}
