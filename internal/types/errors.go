package types

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means an upstream resolve or search returned zero usable
	// results. Handlers render it as 404.
	ErrNotFound = errors.New("not found")

	// ErrNoCoordinates means a place resolved but carries no geometry, so
	// nothing distance-based can be computed for it.
	ErrNoCoordinates = errors.New("no coordinate information available")
)

// UpstreamError wraps a non-2xx response or a provider-level error status
// from one of the external APIs. It is never retried here; handlers render
// it as a structured JSON error.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}
