package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey                 string  `toml:"api_key"`
	BaseURL                string  `toml:"base_url"`
	Language               string  `toml:"language"`
	Region                 string  `toml:"region"`
	TimeoutSeconds         int     `toml:"timeout_seconds"`
	RequestsPerSecond      float64 `toml:"requests_per_second"`
	Burst                  int     `toml:"burst"`
	BreakerFailures        int     `toml:"breaker_failures"`
	BreakerCooldownSeconds int     `toml:"breaker_cooldown_seconds"`
	TrendingPages          int     `toml:"trending_pages"`
	UpcomingPages          int     `toml:"upcoming_pages"`
	AnniversaryYears       []int   `toml:"anniversary_years"`
	AnniversarySpreadDays  int     `toml:"anniversary_spread_days"`
}

// Popularity holds the minimum popularity per feed type.
type Popularity struct {
	Today       float64 `toml:"today"`
	Weekly      float64 `toml:"weekly"`
	Monthly     float64 `toml:"monthly"`
	Anniversary float64 `toml:"anniversary"`
}

// Curation contains batch sizing and numeric thresholds for the pipeline.
type Curation struct {
	MaxItems              int        `toml:"max_items"`
	EnrichLimit           int        `toml:"enrich_limit"`
	EnrichWorkers         int        `toml:"enrich_workers"`
	MinVoteCount          int        `toml:"min_vote_count"`
	StudioPopularityFloor float64    `toml:"studio_popularity_floor"`
	Popularity            Popularity `toml:"popularity"`
}

// Rules contains the lookup tables the filter and scoring engines consult.
type Rules struct {
	ApprovedGenres      []int    `toml:"approved_genres"`
	RejectedGenres      []int    `toml:"rejected_genres"`
	HighDemandGenres    []int    `toml:"high_demand_genres"`
	MajorStudios        []string `toml:"major_studios"`
	TopTierStudios      []string `toml:"top_tier_studios"`
	BlacklistedKeywords []string `toml:"blacklisted_keywords"`
	RejectedShowTypes   []string `toml:"rejected_show_types"`
}

// Dedup contains the duplicate suppression windows in days.
type Dedup struct {
	WindowDays                 int `toml:"window_days"`
	AnniversaryCrossWindowDays int `toml:"anniversary_cross_window_days"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	OnSelected     bool   `toml:"on_selected"`
	OnEmpty        bool   `toml:"on_empty"`
	OnError        bool   `toml:"on_error"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Marquee.
//
// Configuration sections by subsystem:
//   - Paths: schedule database and log directories
//   - TMDB: catalog source credentials, rate limits, and discovery sizing
//   - Curation: batch sizing and numeric thresholds
//   - Rules: genre, studio, keyword, and show type tables
//   - Dedup: repeat-post suppression windows
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	TMDB          TMDB          `toml:"tmdb"`
	Curation      Curation      `toml:"curation"`
	Rules         Rules         `toml:"rules"`
	Dedup         Dedup         `toml:"dedup"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/marquee/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("marquee.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SchedulePath returns the location of the scheduled posts database.
func (c *Config) SchedulePath() string {
	return filepath.Join(c.Paths.DataDir, "schedule.db")
}

// LogPath returns the location of the rolling log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "marquee.log")
}

// PopularityFor returns the configured popularity floor for a feed type name.
func (c *Config) PopularityFor(feed string) float64 {
	switch feed {
	case "today":
		return c.Curation.Popularity.Today
	case "weekly":
		return c.Curation.Popularity.Weekly
	case "monthly":
		return c.Curation.Popularity.Monthly
	case "anniversary":
		return c.Curation.Popularity.Anniversary
	default:
		return 0
	}
}

// Encode renders the configuration as TOML, masking secrets.
func (c *Config) Encode() ([]byte, error) {
	masked := *c
	if masked.TMDB.APIKey != "" {
		masked.TMDB.APIKey = "********"
	}
	data, err := toml.Marshal(masked)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
