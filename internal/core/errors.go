package core

import (
	"errors"
)

// Typed failure variants surfaced by the extraction adapters and the fetch
// pool. The flow maps each to a distinct localized user-facing message.
var (
	// ErrNotFound signals zero search results
	ErrNotFound = errors.New("no results")
	// ErrSourceUnavailable signals an unreachable, restricted or removed source
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrUnsupportedURL signals a URL no extractor can handle
	ErrUnsupportedURL = errors.New("unsupported url")
	// ErrTranscodeFailed signals a post-download re-encode failure
	ErrTranscodeFailed = errors.New("transcode failed")
	// ErrRateLimited signals the upstream throttled us
	ErrRateLimited = errors.New("rate limited")
	// ErrBusy signals the fetch pool rejected the job under backpressure
	ErrBusy = errors.New("fetch queue full")
	// ErrStaleReference signals a token that was never issued or already consumed
	ErrStaleReference = errors.New("stale reference")
)

// MessageKey maps a failure to the i18n key of its user-facing string.
func MessageKey(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "error.not_found"
	case errors.Is(err, ErrUnsupportedURL):
		return "error.unsupported_url"
	case errors.Is(err, ErrSourceUnavailable):
		return "error.source_unavailable"
	case errors.Is(err, ErrTranscodeFailed):
		return "error.transcode"
	case errors.Is(err, ErrRateLimited):
		return "error.rate_limited"
	case errors.Is(err, ErrBusy):
		return "error.busy"
	case errors.Is(err, ErrStaleReference):
		return "error.stale"
	default:
		return "error.generic"
	}
}
