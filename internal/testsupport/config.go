package testsupport

import (
	"path/filepath"
	"testing"

	"marquee/internal/config"
)

// ConfigOption adjusts a generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig returns the default configuration with an API key set and the
// data and log directories placed under t.TempDir().
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.TMDB.APIKey = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithTMDBKey replaces the API key. An empty key simulates a fresh install.
func WithTMDBKey(key string) ConfigOption {
	return func(cfg *config.Config) { cfg.TMDB.APIKey = key }
}
