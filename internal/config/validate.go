package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateCuration(); err != nil {
		return err
	}
	if err := c.validateRules(); err != nil {
		return err
	}
	if err := c.validateDedup(); err != nil {
		return err
	}
	return nil
}

// ValidateCatalogAccess reports whether catalog credentials are present. It is
// separate from Validate so offline commands (posts, config) work without a key.
func (c *Config) ValidateCatalogAccess() error {
	if c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/marquee/config.toml"
		}
		return fmt.Errorf("tmdb.api_key is required. Set TMDB_API_KEY env var or edit %s (create with 'marquee config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.RequestsPerSecond <= 0 {
		return errors.New("tmdb.requests_per_second must be positive")
	}
	if c.TMDB.Burst <= 0 {
		return errors.New("tmdb.burst must be positive")
	}
	if c.TMDB.BreakerFailures <= 0 {
		return errors.New("tmdb.breaker_failures must be positive")
	}
	if c.TMDB.BreakerCooldownSeconds <= 0 {
		return errors.New("tmdb.breaker_cooldown_seconds must be positive")
	}
	for _, year := range c.TMDB.AnniversaryYears {
		if year <= 0 {
			return errors.New("tmdb.anniversary_years entries must be positive")
		}
	}
	return nil
}

func (c *Config) validateCuration() error {
	if err := ensurePositiveMap(map[string]int{
		"curation.max_items":      c.Curation.MaxItems,
		"curation.enrich_workers": c.Curation.EnrichWorkers,
	}); err != nil {
		return err
	}
	if c.Curation.MinVoteCount < 0 {
		return errors.New("curation.min_vote_count must be >= 0")
	}
	if c.Curation.StudioPopularityFloor < 0 {
		return errors.New("curation.studio_popularity_floor must be >= 0")
	}
	pop := c.Curation.Popularity
	for key, value := range map[string]float64{
		"curation.popularity.today":       pop.Today,
		"curation.popularity.weekly":      pop.Weekly,
		"curation.popularity.monthly":     pop.Monthly,
		"curation.popularity.anniversary": pop.Anniversary,
	} {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	return nil
}

func (c *Config) validateRules() error {
	if len(c.Rules.ApprovedGenres) == 0 {
		return errors.New("rules.approved_genres must include at least one genre id")
	}
	approved := make(map[int]struct{}, len(c.Rules.ApprovedGenres))
	for _, id := range c.Rules.ApprovedGenres {
		approved[id] = struct{}{}
	}
	for _, id := range c.Rules.RejectedGenres {
		if _, ok := approved[id]; ok {
			return fmt.Errorf("rules: genre %d cannot be both approved and rejected", id)
		}
	}
	return nil
}

func (c *Config) validateDedup() error {
	if c.Dedup.WindowDays <= 0 {
		return errors.New("dedup.window_days must be positive")
	}
	if c.Dedup.AnniversaryCrossWindowDays <= 0 {
		return errors.New("dedup.anniversary_cross_window_days must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
