package core

import "context"

// Context keys for orchestration options
type contextKey string

const suppressProgressKey contextKey = "suppressProgress"

// WithSuppressProgress disables the progress lines that ingest commands print to stderr.
func WithSuppressProgress(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressProgressKey, true)
}

// shouldSuppressProgress returns whether progress lines should be suppressed from context
func shouldSuppressProgress(ctx context.Context) bool {
	val := ctx.Value(suppressProgressKey)
	if val == nil {
		return false // default: show progress
	}
	suppress, ok := val.(bool)
	return ok && suppress
}
