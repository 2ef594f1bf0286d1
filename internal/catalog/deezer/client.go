// Package deezer implements the extraction adapter interface against the
// public Deezer catalog API. Search returns track records; fetches deliver
// the catalog's fixed 30-second preview clip, never a full-length download.
package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tunegrab/internal/core"
)

const scratchDirPerm = 0o755

type trackRecord struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Preview string `json:"preview"`
	Artist  struct {
		Name string `json:"name"`
	} `json:"artist"`
}

type searchResponse struct {
	Data []trackRecord `json:"data"`
}

// Client talks to the Deezer REST API. No credentials are required for the
// search and preview endpoints.
type Client struct {
	config  *core.DeezerConfig
	scratch string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(config *core.DeezerConfig, scratchDir string, logger *zap.Logger) *Client {
	return &Client{
		config:  config,
		scratch: scratchDir,
		http:    &http.Client{Timeout: config.Timeout},
		logger:  logger,
	}
}

// Search queries the catalog and returns up to limit tracks. Candidate URLs
// point back at the API track resource so Fetch can look the record up again.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]core.Candidate, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&limit=%d", c.config.BaseURL, url.QueryEscape(query), limit)

	var result searchResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	candidates := make([]core.Candidate, 0, len(result.Data))
	for _, track := range result.Data {
		if track.Preview == "" {
			continue
		}
		candidates = append(candidates, core.Candidate{
			Title: track.Artist.Name + " - " + track.Title,
			URL:   c.trackURL(track.ID),
			Rank:  len(candidates),
		})
		if len(candidates) == limit {
			break
		}
	}

	return candidates, nil
}

// Probe returns the display title of a track resource URL.
func (c *Client) Probe(ctx context.Context, trackURL string) (string, error) {
	track, err := c.getTrack(ctx, trackURL)
	if err != nil {
		return "", err
	}
	return track.Artist.Name + " - " + track.Title, nil
}

// Fetch downloads the track's 30-second preview clip into scratch storage.
// The catalog serves audio only; video requests are unsupported.
func (c *Client) Fetch(ctx context.Context, trackURL string, kind core.MediaKind) (*core.Asset, error) {
	if kind != core.MediaAudio {
		return nil, fmt.Errorf("%w: deezer previews are audio only", core.ErrUnsupportedURL)
	}

	track, err := c.getTrack(ctx, trackURL)
	if err != nil {
		return nil, err
	}
	if track.Preview == "" {
		return nil, fmt.Errorf("%w: track has no preview", core.ErrSourceUnavailable)
	}

	if err := os.MkdirAll(c.scratch, scratchDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}

	path := filepath.Join(c.scratch, uuid.NewString()[:8]+".mp3")
	if err := c.download(ctx, track.Preview, path); err != nil {
		return nil, err
	}

	return &core.Asset{
		Title: track.Artist.Name + " - " + track.Title,
		Path:  path,
		Kind:  core.MediaAudio,
	}, nil
}

func (c *Client) trackURL(id int64) string {
	return fmt.Sprintf("%s/track/%d", c.config.BaseURL, id)
}

func (c *Client) getTrack(ctx context.Context, trackURL string) (*trackRecord, error) {
	if !strings.HasPrefix(trackURL, c.config.BaseURL) {
		return nil, fmt.Errorf("%w: not a catalog track resource", core.ErrUnsupportedURL)
	}

	var track trackRecord
	if err := c.getJSON(ctx, trackURL, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: catalog returned 429", core.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: catalog returned %s", core.ErrSourceUnavailable, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}

func (c *Client) download(ctx context.Context, previewURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, previewURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to build preview request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: preview returned %s", core.ErrSourceUnavailable, resp.Status)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create scratch file: %w", err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		if removeErr := os.Remove(path); removeErr != nil {
			c.logger.Debug("Failed to remove partial preview", zap.Error(removeErr))
		}
		return fmt.Errorf("%w: preview download interrupted", core.ErrSourceUnavailable)
	}

	return file.Close()
}
