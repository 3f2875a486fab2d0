package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const DefaultUserAgent = "bookresolver/0.1 (+https://github.com/lehigh-university-libraries/bookresolver)"

// Doer is the subset of *http.Client the Client needs; tests substitute it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPError is returned when OpenLibrary answers with a non-2xx status
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("openlibrary returned status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Client issues single JSON GET requests against OpenLibrary
type Client struct {
	HTTPClient Doer
	UserAgent  string
}

// NewClient creates a new OpenLibrary client
func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent: userAgent,
	}
}

// FetchJSON GETs url and decodes the JSON body into target.
// Failures are reported once; there are no retries.
func (c *Client) FetchJSON(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)

	slog.Debug("Fetching OpenLibrary resource", "url", url)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Error("OpenLibrary HTTP error", "url", url, "status", resp.StatusCode)
		return &HTTPError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		slog.Error("OpenLibrary JSON parse error", "url", url, "err", err)
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}

	return nil
}
