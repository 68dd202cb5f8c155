package fetcher

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/MLH-Fellowship/hooknames/pkg/types"
)

// DefaultConcurrency bounds how many fetches run at once in FetchAll.
const DefaultConcurrency = 4

// Client retrieves bundled scripts and source-map documents. Beyond plain
// HTTP it understands file:// URLs, bare filesystem paths, inline
// data: source maps, and an optional local-bundle index that short-circuits
// remote URLs to files from a build directory.
type Client struct {
	http  *http.Client
	local *localIndex
}

// New creates a Client. timeout is the per-request deadline; userAgent is
// sent on every HTTP request when non-empty.
func New(timeout time.Duration, userAgent string) *Client {
	return &Client{http: newHTTPClient(timeout, userAgent)}
}

// WithLocalBundles walks the given build directories and serves any URL
// whose file name matches a discovered bundle from disk instead of the
// network. Returns the client for chaining.
func (c *Client) WithLocalBundles(roots []string) (*Client, error) {
	idx, err := buildLocalIndex(roots)
	if err != nil {
		return nil, err
	}
	c.local = idx
	return c, nil
}

// Fetch retrieves one URL. Only 2xx responses are consumed; any other
// status, a network error, or an unreadable body fails the fetch for that
// URL alone.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*types.FetchedFile, error) {
	if strings.HasPrefix(rawURL, "data:") {
		return fetchDataURL(rawURL)
	}

	if c.local != nil {
		if path, ok := c.local.lookup(rawURL); ok {
			return fetchFile(rawURL, path)
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	switch u.Scheme {
	case "http", "https":
		return c.fetchHTTP(ctx, rawURL)
	case "file":
		return fetchFile(rawURL, u.Path)
	case "":
		return fetchFile(rawURL, rawURL)
	default:
		return nil, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
}

func (c *Client) fetchHTTP(ctx context.Context, rawURL string) (*types.FetchedFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: HTTP %s", rawURL, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", rawURL, err)
	}
	return &types.FetchedFile{URL: rawURL, Text: string(body)}, nil
}

func fetchFile(rawURL, path string) (*types.FetchedFile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &types.FetchedFile{URL: rawURL, Text: string(data)}, nil
}

// fetchDataURL decodes an inline base64 source map embedded in a
// sourceMappingURL comment.
func fetchDataURL(rawURL string) (*types.FetchedFile, error) {
	comma := strings.IndexByte(rawURL, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URL")
	}
	meta, payload := rawURL[len("data:"):comma], rawURL[comma+1:]
	if !strings.Contains(meta, "base64") {
		return nil, fmt.Errorf("unsupported data URL encoding %q", meta)
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode inline source map: %w", err)
	}
	return &types.FetchedFile{URL: rawURL, Text: string(decoded)}, nil
}

// FetchAll retrieves a set of URLs through a bounded worker pool and returns
// the successes keyed by URL. Failures are logged and leave no entry, so the
// caller sees them as absent files.
func (c *Client) FetchAll(ctx context.Context, urls []string, concurrency int) map[string]*types.FetchedFile {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]*types.FetchedFile, len(urls))
		sem     = make(chan struct{}, concurrency)
	)
	for _, u := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			file, err := c.Fetch(ctx, u)
			if err != nil {
				slog.Debug("fetch failed", "url", u, "error", err)
				return
			}
			mu.Lock()
			results[u] = file
			mu.Unlock()
		}(u)
	}
	wg.Wait()
	return results
}
