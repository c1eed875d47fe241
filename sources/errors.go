package sources

import (
	"errors"
	"fmt"
)

// Source names as they appear in identifier prefixes and rate-limit keys.
const (
	SourceNameMovieTV       = "movieTvService"
	SourceNameBibliographic = "bibliographicService"
	SourceNameAnime         = "animeService"
)

// ErrItemNotFound is returned when the upstream reports the item does not
// exist (404-equivalent).
var ErrItemNotFound = errors.New("item not found upstream")

// RateLimitError is returned when the per-source request budget is
// exhausted. No upstream request is made in that case.
type RateLimitError struct {
	Source string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for source %s", e.Source)
}

// ConfigMissingError is returned when a required upstream credential is
// absent from configuration.
type ConfigMissingError struct {
	Source string
}

func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("missing credential for source %s", e.Source)
}

// UpstreamError is returned for any non-success upstream response other
// than not-found, and for transport failures (including timeouts).
type UpstreamError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream %s request failed: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("upstream %s request failed: status %d", e.Source, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// retryable reports whether the failure is worth another attempt: transport
// errors, throttling, and server-side errors.
func (e *UpstreamError) retryable() bool {
	return e.Err != nil || e.StatusCode == 429 || e.StatusCode >= 500
}
