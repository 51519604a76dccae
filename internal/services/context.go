package services

import "context"

type contextKey int

const (
	runIDKey contextKey = iota
	feedTypeKey
	stageKey
	requestKey
)

// withString stores value under key. Empty values leave ctx unchanged so
// callers can pass optional identifiers through.
func withString(ctx context.Context, key contextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key contextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}

// WithRunID annotates context with the curation run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return withString(ctx, runIDKey, id)
}

// RunIDFromContext extracts the curation run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, runIDKey) }

// WithFeedType annotates context with the feed type being curated.
func WithFeedType(ctx context.Context, feed string) context.Context {
	return withString(ctx, feedTypeKey, feed)
}

func FeedTypeFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, feedTypeKey) }

// WithStage annotates context with the pipeline stage (discover, enrich,
// filter, score, dedup).
func WithStage(ctx context.Context, stage string) context.Context {
	return withString(ctx, stageKey, stage)
}

func StageFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, stageKey) }

// WithRequestID tags outbound catalog calls with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withString(ctx, requestKey, id)
}

func RequestIDFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, requestKey) }
