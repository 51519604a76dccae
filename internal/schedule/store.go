package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/dedup"
)

const (
	postColumns    = "id, catalog_id, media_type, source_feed, title, run_id, scheduled_at, created_at"
	lockRetryDelay = 100 * time.Millisecond
)

// ErrLocked is returned when another process holds the commit lock.
var ErrLocked = errors.New("schedule is locked by another process")

// Store manages post persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the schedule database under the configured
// data directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.SchedulePath())
}

// OpenPath opens the schedule database at path.
func OpenPath(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create schedule dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, lock: flock.New(path + ".lock")}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// WithLock runs fn while holding the cross-process commit lock. It waits
// until ctx is done for the lock to become free.
func (s *Store) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrLocked, ctx.Err())
		}
		return fmt.Errorf("acquire schedule lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn(ctx)
}

// Add inserts a single post and returns it with its assigned id.
func (s *Store) Add(ctx context.Context, post Post) (*Post, error) {
	if err := validatePost(post); err != nil {
		return nil, err
	}
	created := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, insertSQL, insertArgs(post, created)...)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(ctx, id)
}

// AddBatch inserts posts atomically.
func (s *Store) AddBatch(ctx context.Context, posts []Post) error {
	for _, post := range posts {
		if err := validatePost(post); err != nil {
			return err
		}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	created := time.Now().UTC()
	for _, post := range posts {
		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs(post, created)...); err != nil {
			return fmt.Errorf("insert post %s: %w", post.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Get fetches a post by id. It returns nil when no row matches.
func (s *Store) Get(ctx context.Context, id int64) (*Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// Remove deletes a post by id and reports whether a row was removed.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// List returns posts ordered by scheduled time, newest first. A limit of zero
// or less returns every post.
func (s *Store) List(ctx context.Context, limit int) ([]Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY scheduled_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// Count returns the number of stored posts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// ForKey returns every post for key, newest first.
func (s *Store) ForKey(ctx context.Context, key catalog.Key) ([]Post, error) {
	return s.query(ctx,
		`SELECT `+postColumns+` FROM posts WHERE catalog_id = ? AND media_type = ? ORDER BY scheduled_at DESC, id DESC`,
		key.ID, string(key.MediaType),
	)
}

// ExistingPosts returns posts scheduled at or after since, including future
// posts, in the form the dedup engine consumes.
func (s *Store) ExistingPosts(ctx context.Context, since time.Time) ([]dedup.ExistingPost, error) {
	posts, err := s.query(ctx,
		`SELECT `+postColumns+` FROM posts WHERE scheduled_at >= ? ORDER BY scheduled_at, id`,
		since.Unix(),
	)
	if err != nil {
		return nil, err
	}
	out := make([]dedup.ExistingPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Existing())
	}
	return out, nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

const insertSQL = `INSERT INTO posts (catalog_id, media_type, source_feed, title, run_id, scheduled_at, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func insertArgs(post Post, created time.Time) []any {
	return []any{
		post.Key.ID,
		string(post.Key.MediaType),
		string(post.Source),
		nullableString(post.Title),
		nullableString(post.RunID),
		post.ScheduledAt.Unix(),
		created.Unix(),
	}
}

func validatePost(post Post) error {
	if post.Key.ID <= 0 {
		return fmt.Errorf("post catalog id must be positive, got %d", post.Key.ID)
	}
	if _, err := catalog.ParseMediaType(string(post.Key.MediaType)); err != nil {
		return fmt.Errorf("post media type: %w", err)
	}
	if _, err := catalog.ParseFeedType(string(post.Source)); err != nil {
		return fmt.Errorf("post source: %w", err)
	}
	if post.ScheduledAt.IsZero() {
		return errors.New("post scheduled_at is required")
	}
	return nil
}

func scanPost(scanner interface{ Scan(dest ...any) error }) (*Post, error) {
	var (
		post      Post
		mediaType string
		source    string
		title     sql.NullString
		runID     sql.NullString
		scheduled int64
		created   int64
	)
	if err := scanner.Scan(&post.ID, &post.Key.ID, &mediaType, &source, &title, &runID, &scheduled, &created); err != nil {
		return nil, err
	}
	post.Key.MediaType = catalog.MediaType(mediaType)
	post.Source = catalog.FeedType(source)
	post.Title = title.String
	post.RunID = runID.String
	post.ScheduledAt = time.Unix(scheduled, 0).UTC()
	post.CreatedAt = time.Unix(created, 0).UTC()
	return &post, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
