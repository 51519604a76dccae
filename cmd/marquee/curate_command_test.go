package main

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func TestCurateSelectsAndNotifies(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"curate", "--feed", "weekly", "--trail"}, env.configPath)
	if err != nil {
		t.Fatalf("curate: %v", err)
	}
	requireContains(t, out, "Weekly feed")
	requireContains(t, out, "Headliner")
	requireContains(t, out, "Confidence:")
	requireContains(t, out, "popularity")

	msgs := env.notifications()
	if len(msgs) != 1 || msgs[0].title != "Marquee - Picks Ready" {
		t.Fatalf("expected one picks notification, got %+v", msgs)
	}
	requireContains(t, msgs[0].body, "Headliner")
}

func TestCurateJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "curate", "--feed", "weekly"}, env.configPath)
	if err != nil {
		t.Fatalf("curate --json: %v", err)
	}
	var payload struct {
		Outcome  string `json:"outcome"`
		Counts   struct {
			Fetched     int `json:"fetched"`
			FilteredOut int `json:"filtered_out"`
		} `json:"counts"`
		Selected []struct {
			Rank int `json:"rank"`
		} `json:"selected"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if payload.Outcome != "selected" || payload.Counts.Fetched != 2 || payload.Counts.FilteredOut != 1 {
		t.Fatalf("unexpected result %+v", payload)
	}
	if len(payload.Selected) != 1 || payload.Selected[0].Rank != 1 {
		t.Fatalf("unexpected selection %+v", payload.Selected)
	}
}

func TestCurateCommitSchedulesAndSuppressesRepeats(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"curate", "--commit"}, env.configPath); err != nil {
		t.Fatalf("curate --commit: %v", err)
	}

	out, _, err := runCLI(t, []string{"posts", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("posts list: %v", err)
	}
	requireContains(t, out, "movie:1")
	requireContains(t, out, "weekly")

	out, _, err = runCLI(t, []string{"curate"}, env.configPath)
	if err != nil {
		t.Fatalf("second curate: %v", err)
	}
	requireContains(t, out, "every survivor was posted recently")

	msgs := env.notifications()
	if last := msgs[len(msgs)-1]; last.title != "Marquee - No Picks" {
		t.Fatalf("expected empty-run notification, got %+v", last)
	}

	out, _, err = runCLI(t, []string{"posts", "cooldown", "movie", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("posts cooldown: %v", err)
	}
	requireContains(t, out, "eligible in 30 days")
}

func TestOverlappingCommitsScheduleATitleOnce(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"posts", "list"}, env.configPath); err != nil {
		t.Fatalf("posts list: %v", err)
	}

	const runs = 2
	var (
		wg       sync.WaitGroup
		outputs  [runs]string
		failures [runs]error
	)
	for i := range runs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outputs[i], _, failures[i] = runCLI(t, []string{"--json", "curate", "--commit"}, env.configPath)
		}(i)
	}
	wg.Wait()

	selected := 0
	for i := range runs {
		if failures[i] != nil {
			t.Fatalf("run %d: %v", i, failures[i])
		}
		var payload struct {
			Selected []json.RawMessage `json:"selected"`
		}
		if err := json.Unmarshal([]byte(outputs[i]), &payload); err != nil {
			t.Fatalf("decode run %d: %v\n%s", i, err, outputs[i])
		}
		selected += len(payload.Selected)
	}
	if selected != 1 {
		t.Fatalf("expected exactly one run to pick Headliner, got %d picks", selected)
	}

	out, _, err := runCLI(t, []string{"--json", "posts", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("posts list: %v", err)
	}
	if n := strings.Count(out, `"title": "Headliner"`); n != 1 {
		t.Fatalf("expected one scheduled post for movie:1, got %d\n%s", n, out)
	}
}

func TestCurateRejectsUnknownFeed(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"curate", "--feed", "yearly"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "unknown feed type") {
		t.Fatalf("expected feed validation error, got %v", err)
	}
}

func TestExplainPrintsTrailAndBreakdown(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"explain", "movie", "2", "--feed", "weekly"}, env.configPath)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	requireContains(t, out, "Niche Pick (movie:2)")
	requireContains(t, out, "REJECT at popularity")
	requireContains(t, out, "Vote penalty")
	requireContains(t, out, "Dedup: kept")
}

func TestExplainReportsMissingTitle(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"explain", "movie", "404"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "look up movie:404") {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
