package rules_test

import (
	"testing"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/rules"
)

func testTables() *rules.Tables {
	return rules.New(config.Rules{
		ApprovedGenres:      []int{28, 35, 878},
		RejectedGenres:      []int{99, 10752},
		HighDemandGenres:    []int{28, 878},
		MajorStudios:        []string{"Warner Bros", "Marvel Studios", "HBO"},
		TopTierStudios:      []string{"Marvel Studios"},
		BlacklistedKeywords: []string{"documentary", "fan-made"},
		RejectedShowTypes:   []string{"Reality", "Talk Show"},
	})
}

func TestGenreLookups(t *testing.T) {
	tables := testTables()

	if id, ok := tables.RejectedGenre([]int{28, 10752}); !ok || id != 10752 {
		t.Fatalf("expected war to be rejected, got %d %v", id, ok)
	}
	if got := tables.ApprovedGenres([]int{18, 35, 28}); len(got) != 2 || got[0] != 35 || got[1] != 28 {
		t.Fatalf("unexpected approved genres: %v", got)
	}
	if tables.HighDemand([]int{35}) {
		t.Fatal("comedy should not be high demand")
	}
	if !tables.HighDemand([]int{35, 878}) {
		t.Fatal("sci-fi should be high demand")
	}
}

func TestMajorStudioMatchesSubstringIgnoringCase(t *testing.T) {
	tables := testTables()
	movie := &catalog.Movie{Fields: catalog.Fields{Companies: []string{"Legendary", "WARNER BROS. PICTURES"}}}

	studio, ok := tables.MajorStudio(movie)
	if !ok || studio != "Warner Bros" {
		t.Fatalf("expected Warner Bros match, got %q %v", studio, ok)
	}
	if _, ok := tables.TopTierStudio(movie); ok {
		t.Fatal("warner should not be top tier in this table")
	}
}

func TestShortStudioEntriesIgnoreLookalikeCompanies(t *testing.T) {
	tables := rules.New(config.Default().Rules)
	vfx := &catalog.Movie{Fields: catalog.Fields{Companies: []string{"Rodeo FX", "Foxhole Pictures", "Nabcor Films"}}}
	if studio, ok := tables.MajorStudio(vfx); ok {
		t.Fatalf("effects and lookalike companies should not match, got %q", studio)
	}

	show := &catalog.Show{Networks: []string{"FX"}}
	if studio, ok := tables.MajorStudio(show); !ok || studio != "FX" {
		t.Fatalf("expected the FX network to match, got %q %v", studio, ok)
	}
}

func TestMajorStudioMatchesNetworks(t *testing.T) {
	tables := testTables()
	show := &catalog.Show{Networks: []string{"HBO Max"}}

	if _, ok := tables.MajorStudio(show); !ok {
		t.Fatal("expected network to match allow-list")
	}
}

func TestBlacklistedKeywordChecksEveryText(t *testing.T) {
	tables := testTables()

	keyword, ok := tables.BlacklistedKeyword("Space Heroes", "A FAN-MADE tribute to the saga.")
	if !ok || keyword != "fan-made" {
		t.Fatalf("expected fan-made match, got %q %v", keyword, ok)
	}
	if _, ok := tables.BlacklistedKeyword("Space Heroes", ""); ok {
		t.Fatal("unexpected keyword match")
	}
}

func TestRejectedShowTypeIsExactMatch(t *testing.T) {
	tables := testTables()

	if !tables.RejectedShowType("reality") {
		t.Fatal("expected case-insensitive show type match")
	}
	if tables.RejectedShowType("Scripted") || tables.RejectedShowType("") {
		t.Fatal("unexpected rejected show type")
	}
}

func TestNewCopiesConfigSlices(t *testing.T) {
	cfg := config.Rules{MajorStudios: []string{"Pixar"}, ApprovedGenres: []int{16}}
	tables := rules.New(cfg)
	cfg.MajorStudios[0] = "Nobody"

	movie := &catalog.Movie{Fields: catalog.Fields{Companies: []string{"Pixar Animation Studios"}}}
	if _, ok := tables.MajorStudio(movie); !ok {
		t.Fatal("tables should not observe later config mutation")
	}
}
