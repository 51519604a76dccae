package preflight_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marquee/internal/preflight"
	"marquee/internal/services"
	"marquee/internal/testsupport"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := preflight.CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCatalog(t *testing.T) {
	ok := preflight.CheckCatalog(context.Background(), pinger{})
	if !ok.Passed {
		t.Fatalf("expected pass, got %s", ok.Detail)
	}

	rejected := preflight.CheckCatalog(context.Background(), pinger{
		err: services.Wrap(services.ErrConfiguration, "tmdb", "ping", "returned 401", nil),
	})
	if rejected.Passed || rejected.Detail != "api key rejected" {
		t.Fatalf("expected key rejection, got %+v", rejected)
	}

	timedOut := preflight.CheckCatalog(context.Background(), pinger{err: context.DeadlineExceeded})
	if timedOut.Passed || !strings.Contains(timedOut.Detail, "timed out") {
		t.Fatalf("expected timeout summary, got %+v", timedOut)
	}
}

func TestRunAllCoversEveryDependency(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg, pinger{})
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d: %+v", len(results), results)
	}
	if preflight.Failed(results) {
		t.Fatalf("expected every check to pass: %+v", results)
	}
	if last := results[len(results)-1]; last.Detail != "disabled" {
		t.Fatalf("expected notifications disabled, got %+v", last)
	}

	results = preflight.RunAll(context.Background(), cfg, pinger{err: errors.New("connection refused")})
	if !preflight.Failed(results) {
		t.Fatal("expected catalog failure to fail the run")
	}
}

func TestRunAllWithoutCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTMDBKey(""))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	results := preflight.RunAll(context.Background(), cfg, nil)
	var found bool
	for _, r := range results {
		if r.Name == "TMDB" {
			found = true
			if r.Passed || r.Detail != "api key missing" {
				t.Fatalf("unexpected catalog result %+v", r)
			}
		}
	}
	if !found {
		t.Fatal("expected a catalog result")
	}
}
