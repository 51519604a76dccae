package catalog_test

import (
	"testing"
	"time"

	"marquee/internal/catalog"
)

func TestParseFeedType(t *testing.T) {
	feed, err := catalog.ParseFeedType(" Weekly ")
	if err != nil {
		t.Fatalf("ParseFeedType returned error: %v", err)
	}
	if feed != catalog.FeedWeekly {
		t.Fatalf("unexpected feed: %q", feed)
	}
	if _, err := catalog.ParseFeedType("yearly"); err == nil {
		t.Fatal("expected error for unknown feed type")
	}
}

func TestParseMediaType(t *testing.T) {
	if mt, err := catalog.ParseMediaType("series"); err != nil || mt != catalog.MediaTV {
		t.Fatalf("unexpected media type: %q %v", mt, err)
	}
	if _, err := catalog.ParseMediaType("podcast"); err == nil {
		t.Fatal("expected error for unknown media type")
	}
}

func TestShowAffiliationsIncludeNetworksAndCompanies(t *testing.T) {
	show := &catalog.Show{
		Fields:   catalog.Fields{ID: 7, Companies: []string{"Bad Robot"}},
		Networks: []string{"HBO"},
	}
	got := show.Affiliations()
	if len(got) != 2 || got[0] != "HBO" || got[1] != "Bad Robot" {
		t.Fatalf("unexpected affiliations: %v", got)
	}
	if show.Key() != (catalog.Key{ID: 7, MediaType: catalog.MediaTV}) {
		t.Fatalf("unexpected key: %v", show.Key())
	}
}

func TestReleasedTreatsUnknownDateAsReleased(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	if !catalog.Released(catalog.Fields{}, now) {
		t.Fatal("expected unknown date to count as released")
	}
	future := catalog.Fields{ReleaseDate: now.AddDate(0, 1, 0)}
	if catalog.Released(future, now) {
		t.Fatal("expected future date to be unreleased")
	}
}

func TestCountriesDeduplicates(t *testing.T) {
	f := catalog.Fields{ProductionCountries: []string{"US", "GB"}, OriginCountries: []string{"US"}}
	got := f.Countries()
	if len(got) != 2 {
		t.Fatalf("expected 2 countries, got %v", got)
	}
}
