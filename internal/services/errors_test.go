package services_test

import (
	"errors"
	"strings"
	"testing"

	"marquee/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternal, "enrich", "movie details", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"enrich", "movie details", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestKindMapping(t *testing.T) {
	cases := map[string]error{
		"configuration": services.Wrap(services.ErrConfiguration, "tmdb", "auth", "invalid key", nil),
		"not_found":     services.Wrap(services.ErrNotFound, "tmdb", "details", "", nil),
		"unavailable":   services.Wrap(services.ErrUnavailable, "tmdb", "", "breaker open", nil),
		"transient":     errors.New("io"),
	}
	for want, err := range cases {
		if got := services.Kind(err); got != want {
			t.Fatalf("Kind(%v) = %q, want %q", err, got, want)
		}
	}
	if services.Kind(nil) != "" {
		t.Fatal("expected empty kind for nil error")
	}
	if services.Hint(cases["configuration"]) == "" {
		t.Fatal("expected hint for configuration error")
	}
}
