package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const upcomingEmpty = `{"page": 1, "total_pages": 1, "results": []}`

const trendingWeek = `{"page": 1, "total_pages": 1, "results": [
	{"id": 1, "media_type": "movie", "title": "Headliner", "popularity": 80},
	{"id": 2, "media_type": "movie", "title": "Niche Pick", "popularity": 3}
]}`

const headlinerDetails = `{
	"id": 1, "title": "Headliner", "overview": "Heroes race to save the city.",
	"release_date": "2025-06-13", "popularity": 80, "vote_average": 7.4, "vote_count": 4200,
	"genres": [{"id": 28, "name": "Action"}, {"id": 12, "name": "Adventure"}],
	"production_countries": [{"iso_3166_1": "US", "name": "United States of America"}],
	"production_companies": [{"id": 174, "name": "Warner Bros. Pictures"}],
	"runtime": 124, "budget": 150000000,
	"poster_path": "/p.jpg", "backdrop_path": "/b.jpg"
}`

const nichePickDetails = `{
	"id": 2, "title": "Niche Pick", "release_date": "2025-01-10",
	"popularity": 3, "vote_average": 6.1, "vote_count": 40,
	"genres": [{"id": 18, "name": "Drama"}],
	"production_countries": [{"iso_3166_1": "US", "name": "United States of America"}],
	"runtime": 95, "poster_path": "/p.jpg", "backdrop_path": "/b.jpg"
}`

type cliTestEnv struct {
	configPath string
	dataDir    string
	tmdb       *httptest.Server
	ntfy       *httptest.Server

	mu       sync.Mutex
	messages []ntfyMessage
}

type ntfyMessage struct {
	title string
	body  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("MARQUEE_NTFY_TOPIC", "")

	env := &cliTestEnv{dataDir: filepath.Join(base, "data")}

	env.tmdb = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/upcoming":
			_, _ = w.Write([]byte(upcomingEmpty))
		case "/trending/all/week", "/trending/all/day":
			_, _ = w.Write([]byte(trendingWeek))
		case "/movie/1":
			_, _ = w.Write([]byte(headlinerDetails))
		case "/movie/2":
			_, _ = w.Write([]byte(nichePickDetails))
		case "/configuration":
			_, _ = w.Write([]byte(`{"images": {}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(env.tmdb.Close)

	env.ntfy = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		env.mu.Lock()
		env.messages = append(env.messages, ntfyMessage{title: r.Header.Get("Title"), body: string(body)})
		env.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(env.ntfy.Close)

	env.configPath = filepath.Join(homeDir, ".config", "marquee", "config.toml")
	if err := os.MkdirAll(filepath.Dir(env.configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[tmdb]
api_key = "test-key"
base_url = %q
trending_pages = 1
upcoming_pages = 1

[notifications]
ntfy_topic = %q
on_selected = true
on_empty = true
on_error = true

[logging]
level = "error"
`, env.dataDir, filepath.Join(base, "logs"), env.tmdb.URL, env.ntfy.URL)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) notifications() []ntfyMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ntfyMessage(nil), e.messages...)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
