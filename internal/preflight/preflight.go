package preflight

import (
	"context"

	"marquee/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Pinger is the catalog client surface the catalog check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RunAll executes every check for the given config. A nil catalog skips the
// catalog reachability check and reports the missing credentials instead.
func RunAll(ctx context.Context, cfg *config.Config, catalog Pinger) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckSchedule(ctx, cfg.SchedulePath()),
	}

	if catalog == nil {
		detail := "not configured"
		if err := cfg.ValidateCatalogAccess(); err != nil {
			detail = "api key missing"
		}
		results = append(results, Result{Name: catalogCheckName, Detail: detail})
	} else {
		results = append(results, CheckCatalog(ctx, catalog))
	}

	results = append(results, CheckNotifications(cfg))
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
