// Package googlebooks queries the Google Books volumes API for candidate records.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/thywilljoshua/pdf-bookinfo/internal/faults"
)

// DefaultBaseURL is the public Google Books API root.
const DefaultBaseURL = "https://www.googleapis.com/books/v1"

// Client searches Google Books. The zero value is usable.
type Client struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// APIKey is optional; anonymous requests work with a lower quota.
	APIKey string
	// HTTPClient defaults to a client without a timeout; bound requests with ctx instead.
	HTTPClient *http.Client
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewClient creates a Client for the public endpoint.
func NewClient(apiKey string) *Client {
	return &Client{APIKey: apiKey}
}

// Search runs one volumes query (e.g. "isbn:9780131103627" or "title:Go") and
// returns the volumeInfo of every item. A response without items is an empty
// result, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]Volume, error) {
	v := url.Values{}
	v.Set("q", query)
	if c.APIKey != "" {
		v.Set("key", c.APIKey)
	}
	endpoint := c.baseURL() + "/volumes?" + v.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: google books request: %v", faults.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: google books returned status %d: %s", faults.ErrNetwork, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decoding google books response: %v", faults.ErrNetwork, err)
	}

	volumes := make([]Volume, 0, len(result.Items))
	for _, item := range result.Items {
		volumes = append(volumes, item.VolumeInfo)
	}
	return volumes, nil
}

// FetchCandidates searches every ISBN concurrently and flattens the results
// in ISBN order. A failed ISBN search is logged and contributes nothing.
//
// The title search only runs when no ISBNs were given. ISBN searches that all
// come back empty do not fall back to the title.
func (c *Client) FetchCandidates(ctx context.Context, title string, isbns []string) []Volume {
	perISBN := make([][]Volume, len(isbns))

	var wg sync.WaitGroup
	for i, isbn := range isbns {
		wg.Add(1)
		go func(idx int, isbn string) {
			defer wg.Done()
			volumes, err := c.Search(ctx, "isbn:"+isbn)
			if err != nil {
				c.logger().Error("Google Books ISBN search failed", "isbn", isbn, "error", err)
				return
			}
			// Each goroutine owns its slot.
			perISBN[idx] = volumes
		}(i, isbn)
	}
	wg.Wait()

	if len(perISBN) == 0 {
		volumes, err := c.Search(ctx, "title:"+title)
		if err != nil {
			c.logger().Error("Google Books title search failed", "title", title, "error", err)
		} else {
			perISBN = append(perISBN, volumes)
		}
	}

	var candidates []Volume
	for _, volumes := range perISBN {
		candidates = append(candidates, volumes...)
	}
	return candidates
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return &http.Client{}
	}
	return c.HTTPClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
