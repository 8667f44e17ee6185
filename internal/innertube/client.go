// Package innertube talks to the upstream video platform: it scrapes the
// per-cycle page tokens out of the watch page and queries the player API for
// caption track listings.
package innertube

import (
	"net/http"
	"time"

	"capsearch/internal/logger"
)

// Client is responsible for all communication with the upstream platform.
type Client struct {
	httpClient *http.Client
	logger     logger.Logger
	userAgent  string
	watchURL   string
	playerURL  string
}

// NewClient creates a new upstream client.
func NewClient(log logger.Logger, userAgent, watchURL, playerURL string) *Client {
	transport := &http.Transport{
		ResponseHeaderTimeout: 10 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
		},
		logger:    log,
		userAgent: userAgent,
		watchURL:  watchURL,
		playerURL: playerURL,
	}
}

// HttpClient returns the underlying http.Client instance, shared with the
// payload fetcher.
func (c *Client) HttpClient() *http.Client {
	return c.httpClient
}
