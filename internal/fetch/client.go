// Package fetch downloads caption payloads with retry logic.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"capsearch/internal/logger"
	"capsearch/internal/models"
)

// Fetcher downloads individual caption payloads with robust retry logic.
type Fetcher struct {
	httpClient *http.Client
	logger     logger.Logger
	userAgent  string
}

// NewFetcher creates a new payload fetcher sharing the given HTTP client.
func NewFetcher(client *http.Client, log logger.Logger, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: client,
		logger:     log,
		userAgent:  userAgent,
	}
}

// Fetch retrieves a single payload with per-attempt timeouts and retries.
// Failures wrap models.ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	const maxRetries = 3
	const retryDelay = 100 * time.Millisecond
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		data, err := f.fetchOnce(attemptCtx, url)
		cancel()
		if err == nil {
			return data, nil
		}
		lastErr = err
		f.logger.Warnf("Fetch attempt %d/%d for %s failed: %v", attempt, maxRetries, url, err)
		if ctx.Err() != nil {
			break
		}
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("%w: %s after retries: %v", models.ErrFetchFailed, url, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received status code %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
