package schedule_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/schedule"
	"marquee/internal/testsupport"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func movieKey(id int64) catalog.Key {
	return catalog.Key{ID: id, MediaType: catalog.MediaMovie}
}

func TestAddAndGetRoundTrip(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	post, err := store.Add(ctx, schedule.Post{
		Key:         movieKey(603),
		Source:      catalog.FeedWeekly,
		Title:       "The Matrix",
		RunID:       "run-1",
		ScheduledAt: now,
	})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if post.ID == 0 || post.Title != "The Matrix" || post.RunID != "run-1" {
		t.Fatalf("unexpected post: %+v", post)
	}
	if !post.ScheduledAt.Equal(now) || post.Source != catalog.FeedWeekly {
		t.Fatalf("unexpected schedule fields: %+v", post)
	}
	if post.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	missing, err := store.Get(ctx, 9999)
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing id, got %+v %v", missing, err)
	}
}

func TestAddValidatesPost(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	cases := []schedule.Post{
		{Key: movieKey(0), Source: catalog.FeedToday, ScheduledAt: now},
		{Key: catalog.Key{ID: 1, MediaType: "podcast"}, Source: catalog.FeedToday, ScheduledAt: now},
		{Key: movieKey(1), Source: "yearly", ScheduledAt: now},
		{Key: movieKey(1), Source: catalog.FeedToday},
	}
	for i, post := range cases {
		if _, err := store.Add(ctx, post); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestExistingPostsIncludesFutureAndRespectsSince(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	err := store.AddBatch(ctx, []schedule.Post{
		{Key: movieKey(1), Source: catalog.FeedWeekly, ScheduledAt: now.AddDate(0, 0, -90)},
		{Key: movieKey(2), Source: catalog.FeedToday, ScheduledAt: now.AddDate(0, 0, -10)},
		{Key: catalog.Key{ID: 3, MediaType: catalog.MediaTV}, Source: catalog.FeedAnniversary, ScheduledAt: now.AddDate(0, 0, 5)},
	})
	if err != nil {
		t.Fatalf("AddBatch returned error: %v", err)
	}

	posts, err := store.ExistingPosts(ctx, now.AddDate(0, 0, -60))
	if err != nil {
		t.Fatalf("ExistingPosts returned error: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected two posts inside lookback, got %d", len(posts))
	}
	if posts[0].Key != movieKey(2) || posts[0].Source != catalog.FeedToday {
		t.Fatalf("unexpected first post: %+v", posts[0])
	}
	if posts[1].Key.MediaType != catalog.MediaTV || !posts[1].ScheduledAt.Equal(now.AddDate(0, 0, 5)) {
		t.Fatalf("unexpected future post: %+v", posts[1])
	}
}

func TestAddBatchIsAtomic(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	err := store.AddBatch(ctx, []schedule.Post{
		{Key: movieKey(1), Source: catalog.FeedWeekly, ScheduledAt: now},
		{Key: movieKey(2), Source: "bogus", ScheduledAt: now},
	})
	if err == nil {
		t.Fatal("expected batch validation error")
	}
	posts, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected no rows after failed batch, got %d", len(posts))
	}
}

func TestListAndForKeyOrderNewestFirst(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for i, days := range []int{-20, -2, -40} {
		if _, err := store.Add(ctx, schedule.Post{Key: movieKey(7), Source: catalog.FeedToday, ScheduledAt: now.AddDate(0, 0, days)}); err != nil {
			t.Fatalf("Add %d returned error: %v", i, err)
		}
	}
	if _, err := store.Add(ctx, schedule.Post{Key: movieKey(8), Source: catalog.FeedToday, ScheduledAt: now}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	forKey, err := store.ForKey(ctx, movieKey(7))
	if err != nil {
		t.Fatalf("ForKey returned error: %v", err)
	}
	if len(forKey) != 3 || !forKey[0].ScheduledAt.Equal(now.AddDate(0, 0, -2)) {
		t.Fatalf("unexpected posts for key: %+v", forKey)
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(limited) != 2 || limited[0].Key != movieKey(8) {
		t.Fatalf("unexpected list: %+v", limited)
	}

	count, err := store.Count(ctx)
	if err != nil || count != 4 {
		t.Fatalf("Count = %d, %v; want 4", count, err)
	}
}

func TestRemoveDeletesPost(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	post, err := store.Add(ctx, schedule.Post{Key: movieKey(1), Source: catalog.FeedMonthly, ScheduledAt: now})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	removed, err := store.Remove(ctx, post.ID)
	if err != nil || !removed {
		t.Fatalf("expected removal, got %v %v", removed, err)
	}
	removed, err = store.Remove(ctx, post.ID)
	if err != nil || removed {
		t.Fatalf("expected second removal to be a no-op, got %v %v", removed, err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "schedule.db")
	store, err := schedule.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath returned error: %v", err)
	}
	if _, err := store.Add(context.Background(), schedule.Post{Key: movieKey(1), Source: catalog.FeedToday, ScheduledAt: now}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := schedule.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })
	posts, err := reopened.List(context.Background(), 0)
	if err != nil || len(posts) != 1 {
		t.Fatalf("expected persisted post, got %d %v", len(posts), err)
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 7"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	db.Close()

	if _, err := schedule.OpenPath(path); !errors.Is(err, schedule.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestWithLockSerializesCommits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := testsupport.MustOpenStore(t, cfg)
	second := testsupport.MustOpenStore(t, cfg)

	var ran atomic.Bool
	err := first.WithLock(context.Background(), func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
		defer cancel()
		inner := second.WithLock(waitCtx, func(context.Context) error {
			ran.Store(true)
			return nil
		})
		if !errors.Is(inner, schedule.ErrLocked) {
			t.Errorf("expected ErrLocked while held, got %v", inner)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithLock returned error: %v", err)
	}
	if ran.Load() {
		t.Fatal("second holder should not run while the lock is held")
	}

	if err := second.WithLock(context.Background(), func(context.Context) error {
		ran.Store(true)
		return nil
	}); err != nil {
		t.Fatalf("WithLock after release returned error: %v", err)
	}
	if !ran.Load() {
		t.Fatal("expected callback to run once the lock is free")
	}
}
