// Package extract wraps the yt-dlp binary as the media extraction adapter:
// bounded text search against a provider and URL-to-local-file fetches with a
// fixed audio re-encode target.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tunegrab/internal/core"
)

const scratchDirPerm = 0o755

// searchEntry is the subset of a flat-playlist JSON line we care about.
type searchEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Page  string `json:"webpage_url"`
}

// Runner shells out to yt-dlp. Every invocation carries a bounded timeout;
// a hung upstream never blocks a request forever.
type Runner struct {
	config *core.ExtractConfig
	logger *zap.Logger
}

func NewRunner(config *core.ExtractConfig, logger *zap.Logger) *Runner {
	return &Runner{
		config: config,
		logger: logger,
	}
}

// Search runs a provider-bounded text search and returns candidates in the
// provider's relevance order. An empty result is a valid non-error outcome.
func (r *Runner) Search(ctx context.Context, query string, limit int) ([]core.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.SearchTimeout)
	defer cancel()

	spec := fmt.Sprintf("%s%d:%s", r.searchPrefix(), limit, query)
	cmd := exec.CommandContext(ctx, r.config.BinPath, "-j", "--flat-playlist", spec)

	out, err := cmd.Output()
	if err != nil {
		return nil, r.classify(ctx, err)
	}

	return parseSearchOutput(string(out)), nil
}

// Probe returns the display title of a single URL without downloading it.
func (r *Runner) Probe(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.SearchTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.config.BinPath,
		"--no-playlist", "--skip-download", "--print", "title", url)

	out, err := cmd.Output()
	if err != nil {
		return "", r.classify(ctx, err)
	}

	title := firstLine(string(out))
	if title == "" {
		title = "Video"
	}
	return title, nil
}

// Fetch downloads the URL into scratch storage. Audio is re-encoded to MP3
// at the configured bitrate; video takes the best available combined stream.
// Every invocation writes to a freshly generated path, so concurrent fetches
// of the same URL never collide.
func (r *Runner) Fetch(ctx context.Context, url string, kind core.MediaKind) (*core.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.FetchTimeout)
	defer cancel()

	if err := os.MkdirAll(r.config.ScratchDir, scratchDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}

	uid := uuid.NewString()[:8]
	var path string
	var args []string

	if kind == core.MediaVideo {
		path = filepath.Join(r.config.ScratchDir, uid+".mp4")
		args = []string{
			"-f", "best",
			"--no-playlist",
			"-o", path,
		}
	} else {
		path = filepath.Join(r.config.ScratchDir, uid+".mp3")
		args = []string{
			"-x",
			"--audio-format", "mp3",
			"--audio-quality", r.config.AudioBitrate,
			"--no-playlist",
			"-o", filepath.Join(r.config.ScratchDir, uid+".%(ext)s"),
		}
	}
	// --print implies simulation unless download is forced back on.
	args = append(args, "--no-simulate", "--print", "title", url)

	cmd := exec.CommandContext(ctx, r.config.BinPath, args...)
	out, err := cmd.Output()
	if err != nil {
		r.removePartial(path)
		return nil, r.classify(ctx, err)
	}

	if _, statErr := os.Stat(path); statErr != nil {
		return nil, fmt.Errorf("%w: output file missing", core.ErrTranscodeFailed)
	}

	title := firstLine(string(out))
	if title == "" {
		if kind == core.MediaVideo {
			title = "Video"
		} else {
			title = "Music"
		}
	}

	return &core.Asset{Title: title, Path: path, Kind: kind}, nil
}

func (r *Runner) searchPrefix() string {
	if strings.EqualFold(r.config.Provider, "soundcloud") {
		return "scsearch"
	}
	return "ytsearch"
}

// classify maps a yt-dlp failure onto the typed error variants the flow
// translates into distinct user-facing messages.
func (r *Runner) classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: timed out", core.ErrSourceUnavailable)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("yt-dlp: %w", err)
	}

	stderr := strings.ToLower(string(exitErr.Stderr))
	r.logger.Debug("yt-dlp failed", zap.String("stderr", strings.TrimSpace(stderr)))

	switch {
	case strings.Contains(stderr, "unsupported url"):
		return fmt.Errorf("%w: %s", core.ErrUnsupportedURL, summarize(stderr))
	case strings.Contains(stderr, "429") || strings.Contains(stderr, "rate-limit") || strings.Contains(stderr, "too many requests"):
		return fmt.Errorf("%w: %s", core.ErrRateLimited, summarize(stderr))
	case strings.Contains(stderr, "ffmpeg") || strings.Contains(stderr, "postprocess"):
		return fmt.Errorf("%w: %s", core.ErrTranscodeFailed, summarize(stderr))
	case strings.Contains(stderr, "private") ||
		strings.Contains(stderr, "geo") ||
		strings.Contains(stderr, "not available") ||
		strings.Contains(stderr, "sign in") ||
		strings.Contains(stderr, "removed"):
		return fmt.Errorf("%w: %s", core.ErrSourceUnavailable, summarize(stderr))
	default:
		return fmt.Errorf("%w: %s", core.ErrSourceUnavailable, summarize(stderr))
	}
}

func (r *Runner) removePartial(path string) {
	for _, p := range []string{path, path + ".part"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			r.logger.Debug("Failed to remove partial download", zap.String("path", p), zap.Error(err))
		}
	}
}

// parseSearchOutput decodes one flat-playlist JSON object per line. Lines
// that fail to decode are skipped rather than failing the whole search.
func parseSearchOutput(out string) []core.Candidate {
	var candidates []core.Candidate

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var entry searchEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		url := entry.URL
		if url == "" {
			url = entry.Page
		}
		if url == "" && entry.ID != "" {
			url = "https://www.youtube.com/watch?v=" + entry.ID
		}
		if url == "" || entry.Title == "" {
			continue
		}

		candidates = append(candidates, core.Candidate{
			Title: entry.Title,
			URL:   url,
			Rank:  len(candidates),
		})
	}

	return candidates
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func summarize(stderr string) string {
	line := firstLine(stderr)
	if len(line) > 120 {
		line = line[:120]
	}
	return line
}
