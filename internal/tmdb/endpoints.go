package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/services"
)

// TimeWindow selects the trending aggregation period.
type TimeWindow string

const (
	WindowDay  TimeWindow = "day"
	WindowWeek TimeWindow = "week"
)

// Listing is an ordered discovery result. Position is 1-based across pages.
type Listing struct {
	Item     catalog.Item
	Position int
}

// Trending fetches the trending list for movies and shows combined. People
// and unknown media types are skipped without consuming a position.
func (c *Client) Trending(ctx context.Context, window TimeWindow, pages int) ([]Listing, error) {
	path := fmt.Sprintf("/trending/all/%s", window)
	return c.pages(ctx, "trending "+string(window), path, nil, "", pages)
}

// Upcoming fetches upcoming theatrical movies for the client's region.
func (c *Client) Upcoming(ctx context.Context, pages int) ([]Listing, error) {
	params := url.Values{}
	if c.region != "" {
		params.Set("region", c.region)
	}
	return c.pages(ctx, "upcoming", "/movie/upcoming", params, catalog.MediaMovie, pages)
}

// DiscoverAnniversaries finds movies released within spreadDays of today's
// date, shifted back by each anniversary year. Results keep discover order
// within each year and years are visited in the order given.
func (c *Client) DiscoverAnniversaries(ctx context.Context, now time.Time, years []int, spreadDays int, minVotes int) ([]Listing, error) {
	var out []Listing
	for _, year := range years {
		if year <= 0 {
			continue
		}
		center := now.AddDate(-year, 0, 0)
		params := url.Values{}
		params.Set("primary_release_date.gte", center.AddDate(0, 0, -spreadDays).Format(dateLayout))
		params.Set("primary_release_date.lte", center.AddDate(0, 0, spreadDays).Format(dateLayout))
		params.Set("sort_by", "popularity.desc")
		params.Set("include_adult", "false")
		params.Set("include_video", "false")
		if minVotes > 0 {
			params.Set("vote_count.gte", strconv.Itoa(minVotes))
		}
		if c.region != "" {
			params.Set("region", c.region)
		}
		listings, err := c.pages(ctx, fmt.Sprintf("discover %dy", year), "/discover/movie", params, catalog.MediaMovie, 1)
		if err != nil {
			return nil, err
		}
		for _, l := range listings {
			l.Position = len(out) + 1
			out = append(out, l)
		}
	}
	return out, nil
}

// Ping checks that the API is reachable and accepts the key.
func (c *Client) Ping(ctx context.Context) error {
	var payload map[string]any
	return c.get(ctx, "ping", "/configuration", nil, &payload)
}

// MovieDetails fetches full movie metadata by TMDB ID.
func (c *Client) MovieDetails(ctx context.Context, movieID int64) (*MovieDetails, error) {
	if movieID <= 0 {
		return nil, services.Wrap(services.ErrValidation, stageName, "movie details", "movie id must be positive", nil)
	}
	var payload MovieDetails
	if err := c.get(ctx, "movie details", fmt.Sprintf("/movie/%d", movieID), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// TVDetails fetches full show metadata by TMDB ID.
func (c *Client) TVDetails(ctx context.Context, showID int64) (*TVDetails, error) {
	if showID <= 0 {
		return nil, services.Wrap(services.ErrValidation, stageName, "tv details", "show id must be positive", nil)
	}
	var payload TVDetails
	if err := c.get(ctx, "tv details", fmt.Sprintf("/tv/%d", showID), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Details fetches and converts the full record for key.
func (c *Client) Details(ctx context.Context, key catalog.Key) (catalog.Item, error) {
	switch key.MediaType {
	case catalog.MediaMovie:
		d, err := c.MovieDetails(ctx, key.ID)
		if err != nil {
			return nil, err
		}
		return d.Item(), nil
	case catalog.MediaTV:
		d, err := c.TVDetails(ctx, key.ID)
		if err != nil {
			return nil, err
		}
		return d.Item(), nil
	default:
		return nil, services.Wrap(services.ErrValidation, stageName, "details", fmt.Sprintf("unsupported media type %q", key.MediaType), nil)
	}
}

func (c *Client) pages(ctx context.Context, operation, path string, base url.Values, fallback catalog.MediaType, pages int) ([]Listing, error) {
	pages = max(pages, 1)
	var out []Listing
	for n := 1; n <= pages; n++ {
		params := url.Values{}
		for k, v := range base {
			params[k] = append([]string(nil), v...)
		}
		params.Set("page", strconv.Itoa(n))

		var payload page
		if err := c.get(ctx, operation, path, params, &payload); err != nil {
			return nil, err
		}
		for _, r := range payload.Results {
			mt, ok := mediaTypeOf(r, fallback)
			if !ok || r.ID <= 0 || r.Adult {
				continue
			}
			out = append(out, Listing{Item: itemFromList(r, mt), Position: len(out) + 1})
		}
		if payload.TotalPages > 0 && n >= payload.TotalPages {
			break
		}
	}
	return out, nil
}
