package main

import (
	"testing"
	"time"
)

func TestPostsAddListRemove(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"posts", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("posts list: %v", err)
	}
	requireContains(t, out, "No scheduled posts")

	out, _, err = runCLI(t, []string{"posts", "add", "tv", "1399", "--feed", "anniversary", "--title", "Dragons", "--at", "2026-01-02"}, env.configPath)
	if err != nil {
		t.Fatalf("posts add: %v", err)
	}
	requireContains(t, out, "Added post 1 for tv:1399 at 2026-01-02T00:00:00Z")

	out, _, err = runCLI(t, []string{"posts", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("posts list: %v", err)
	}
	requireContains(t, out, "Dragons")
	requireContains(t, out, "anniversary")

	out, _, err = runCLI(t, []string{"posts", "remove", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("posts remove: %v", err)
	}
	requireContains(t, out, "Removed post 1")

	if _, _, err := runCLI(t, []string{"posts", "remove", "1"}, env.configPath); err == nil {
		t.Fatal("expected error removing a missing post")
	}
}

func TestPostsValidateArguments(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"posts", "add", "podcast", "1"}, env.configPath); err == nil {
		t.Fatal("expected media type error")
	}
	if _, _, err := runCLI(t, []string{"posts", "add", "movie", "abc"}, env.configPath); err == nil {
		t.Fatal("expected id error")
	}
	if _, _, err := runCLI(t, []string{"posts", "add", "movie", "5", "--at", "tomorrow"}, env.configPath); err == nil {
		t.Fatal("expected time format error")
	}
}

func TestPostsCooldownForUnpostedTitle(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"posts", "cooldown", "movie", "42"}, env.configPath)
	if err != nil {
		t.Fatalf("posts cooldown: %v", err)
	}
	requireContains(t, out, "movie:42 is eligible now")
}

func TestPostsCooldownForAnniversaryFeed(t *testing.T) {
	env := setupCLITestEnv(t)

	at := time.Now().UTC().AddDate(0, 0, -40).Format(time.RFC3339)
	if _, _, err := runCLI(t, []string{"posts", "add", "movie", "42", "--feed", "weekly", "--at", at}, env.configPath); err != nil {
		t.Fatalf("posts add: %v", err)
	}

	out, _, err := runCLI(t, []string{"posts", "cooldown", "movie", "42"}, env.configPath)
	if err != nil {
		t.Fatalf("posts cooldown: %v", err)
	}
	requireContains(t, out, "movie:42 is eligible now")

	out, _, err = runCLI(t, []string{"posts", "cooldown", "movie", "42", "--feed", "anniversary"}, env.configPath)
	if err != nil {
		t.Fatalf("posts cooldown --feed anniversary: %v", err)
	}
	requireContains(t, out, "movie:42 is eligible in 20 days")
}
