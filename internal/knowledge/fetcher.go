// Package knowledge fetches the static knowledge base: a JSON index of
// document names served next to the documents themselves.
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultIndex is the index filename used when none is configured.
const DefaultIndex = "index.json"

// maxParallel bounds concurrent document downloads.
const maxParallel = 4

// Fetcher downloads and concatenates knowledge-base documents.
type Fetcher struct {
	baseURL string
	index   string
	client  *http.Client
	logger  *slog.Logger
}

// NewFetcher creates a fetcher for documents under baseURL. An empty
// baseURL disables the knowledge base.
func NewFetcher(baseURL, index string, client *http.Client, logger *slog.Logger) *Fetcher {
	if index == "" {
		index = DefaultIndex
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		index:   index,
		client:  client,
		logger:  logger,
	}
}

// Fetch returns every readable document joined by a blank line, in
// index order. It returns "" when the index cannot be read and skips
// documents that fail to download.
func (f *Fetcher) Fetch(ctx context.Context) string {
	if f.baseURL == "" {
		return ""
	}

	names, err := f.fetchIndex(ctx)
	if err != nil {
		f.logger.Warn("knowledge base unavailable", "error", err)
		return ""
	}

	docs := make([]string, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, name := range names {
		g.Go(func() error {
			body, err := f.get(gctx, name)
			if err != nil {
				f.logger.Warn("skipping knowledge document", "name", name, "error", err)
				return nil
			}
			docs[i] = body
			return nil
		})
	}
	_ = g.Wait()

	var parts []string
	for _, d := range docs {
		if strings.TrimSpace(d) != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (f *Fetcher) fetchIndex(ctx context.Context) ([]string, error) {
	body, err := f.get(ctx, f.index)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal([]byte(body), &names); err != nil {
		return nil, fmt.Errorf("decoding index %s: %w", f.index, err)
	}
	return names, nil
}

// get downloads one file relative to the base URL as text.
func (f *Fetcher) get(ctx context.Context, name string) (string, error) {
	u := f.baseURL + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("creating request for %s: %w", name, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", name, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}
