package innertube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"capsearch/internal/models"
)

// PageContext holds everything scraped from one watch-page fetch. It is
// fetched once per load cycle and passed explicitly to the strategies that
// need it; nothing here outlives the cycle.
type PageContext struct {
	// APIKey is the API key the player endpoint requires.
	APIKey string
	// VisitorData is the session token some client identities send along.
	VisitorData string
	// PlayerResponse is the raw player-response JSON blob embedded in the
	// page, when present. The page-embedded strategy reads its track list
	// without a further network round-trip.
	PlayerResponse []byte
}

var (
	apiKeyPattern         = regexp.MustCompile(`"INNERTUBE_API_KEY":"([^"]*)"`)
	visitorDataPattern    = regexp.MustCompile(`"visitorData":"([^"]*)"`)
	playerResponsePattern = regexp.MustCompile(`ytInitialPlayerResponse\s*=\s*(\{.+?\})\s*;`)
)

// FetchPageContext fetches the watch page for a video and extracts the page
// tokens and the embedded player-response blob.
func (c *Client) FetchPageContext(ctx context.Context, videoID string) (*PageContext, error) {
	pageURL := fmt.Sprintf("%s?v=%s", c.watchURL, url.QueryEscape(videoID))
	c.logger.Debugf("Fetching watch page: %s", pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create watch page request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: watch page: %v", models.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: watch page returned status %d", models.ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading watch page: %v", models.ErrFetchFailed, err)
	}

	page := &PageContext{}
	if m := apiKeyPattern.FindSubmatch(body); m != nil {
		page.APIKey = string(m[1])
	}
	if m := visitorDataPattern.FindSubmatch(body); m != nil {
		page.VisitorData = string(m[1])
	}
	if m := playerResponsePattern.FindSubmatch(body); m != nil {
		page.PlayerResponse = m[1]
	}

	c.logger.Debugf("Watch page scraped: api_key_present=%t visitor_data_present=%t embedded_player_response=%t",
		page.APIKey != "", page.VisitorData != "", page.PlayerResponse != nil)
	return page, nil
}
