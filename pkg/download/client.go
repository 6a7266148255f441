// pkg/download/client.go
package download

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const defaultUserAgent = "brainflow-java-setup/1.0"

// Client handles HTTP requests to the release host
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client with default timeout
func NewClient() *Client {
	return NewClientWithTimeout(5 * time.Minute)
}

// NewClientWithTimeout creates a new HTTP client with custom timeout. The
// timeout bounds the whole transfer, so it must accommodate archives that
// run to hundreds of megabytes.
func NewClientWithTimeout(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: defaultUserAgent,
	}
}

// Get performs an HTTP GET request
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return resp, nil
}
