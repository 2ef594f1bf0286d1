package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMessageKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", ErrNotFound, "error.not_found"},
		{"unsupported url", ErrUnsupportedURL, "error.unsupported_url"},
		{"source unavailable", ErrSourceUnavailable, "error.source_unavailable"},
		{"transcode", ErrTranscodeFailed, "error.transcode"},
		{"rate limited", ErrRateLimited, "error.rate_limited"},
		{"busy", ErrBusy, "error.busy"},
		{"stale", ErrStaleReference, "error.stale"},
		{"wrapped variant", fmt.Errorf("yt-dlp: %w", ErrRateLimited), "error.rate_limited"},
		{"unknown error", errors.New("boom"), "error.generic"},
		{"nil", nil, "error.generic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MessageKey(tt.err); got != tt.want {
				t.Errorf("MessageKey(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
