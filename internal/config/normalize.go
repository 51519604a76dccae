package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeCuration()
	c.normalizeRules()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = value
		}
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	c.TMDB.Region = strings.ToUpper(strings.TrimSpace(c.TMDB.Region))
	if c.TMDB.Region == "" {
		c.TMDB.Region = defaultTMDBRegion
	}
	if c.TMDB.TimeoutSeconds <= 0 {
		c.TMDB.TimeoutSeconds = defaultTMDBTimeoutSeconds
	}
	if c.TMDB.TrendingPages <= 0 {
		c.TMDB.TrendingPages = defaultTMDBTrendingPages
	}
	if c.TMDB.UpcomingPages <= 0 {
		c.TMDB.UpcomingPages = defaultTMDBUpcomingPages
	}
	if len(c.TMDB.AnniversaryYears) == 0 {
		c.TMDB.AnniversaryYears = defaultAnniversaryYears()
	}
	if c.TMDB.AnniversarySpreadDays < 0 {
		c.TMDB.AnniversarySpreadDays = 0
	}
}

func (c *Config) normalizeCuration() {
	if c.Curation.EnrichWorkers <= 0 {
		c.Curation.EnrichWorkers = defaultEnrichWorkers
	}
	if c.Curation.EnrichLimit < 0 {
		c.Curation.EnrichLimit = 0
	}
}

func (c *Config) normalizeRules() {
	c.Rules.MajorStudios = cleanStrings(c.Rules.MajorStudios)
	c.Rules.TopTierStudios = cleanStrings(c.Rules.TopTierStudios)
	c.Rules.BlacklistedKeywords = cleanStrings(c.Rules.BlacklistedKeywords)
	c.Rules.RejectedShowTypes = cleanStrings(c.Rules.RejectedShowTypes)
	c.Rules.ApprovedGenres = uniqueInts(c.Rules.ApprovedGenres)
	c.Rules.RejectedGenres = uniqueInts(c.Rules.RejectedGenres)
	c.Rules.HighDemandGenres = uniqueInts(c.Rules.HighDemandGenres)
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("MARQUEE_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = 10
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// cleanStrings trims entries and drops blanks and duplicates, keeping order.
func cleanStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func uniqueInts(values []int) []int {
	out := make([]int, 0, len(values))
	seen := make(map[int]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
