package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"capsearch/internal/fetch"
	"capsearch/internal/logger"
	"capsearch/internal/models"
	"capsearch/internal/subtitle"
)

// CommunityRepo queries a community-maintained subtitle repository keyed by
// video identifier. The listing carries filename-encoded languages
// ("Some Title.en.srt"); the matching file is fetched and parsed as SRT.
// Authored community subtitles outrank auto-generated upstream tracks, which
// is why the orchestrator also consults this source when the platform only
// offers machine transcriptions.
type CommunityRepo struct {
	fetcher *fetch.Fetcher
	logger  logger.Logger
	baseURL string
}

// listingEntry is one file in the repository listing for a video.
type listingEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NewCommunityRepo creates the community repository strategy. An empty
// baseURL disables the source.
func NewCommunityRepo(fetcher *fetch.Fetcher, log logger.Logger, baseURL string) *CommunityRepo {
	return &CommunityRepo{
		fetcher: fetcher,
		logger:  log,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name implements Strategy.
func (c *CommunityRepo) Name() string { return "community-repo" }

// Discover implements Strategy. It reports a single synthetic track for the
// matching repository file, so fetching and parsing flow through the same
// path as the API sources.
func (c *CommunityRepo) Discover(ctx context.Context, req Request) (*Catalog, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	listingURL := fmt.Sprintf("%s/listing/%s", c.baseURL, url.PathEscape(req.VideoID))
	data, err := c.fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("community listing: %w", err)
	}

	var entries []listingEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("community listing for %s: %w", req.VideoID, err)
	}

	lang := req.EffectiveLanguage()
	suffix := fmt.Sprintf(".%s.srt", lang)
	for _, entry := range entries {
		if !strings.HasSuffix(strings.ToLower(entry.Name), suffix) || entry.URL == "" {
			continue
		}
		c.logger.Debugf("Community repository matched %q for video %s", entry.Name, req.VideoID)
		return &Catalog{
			Tracks: []models.Track{{
				LanguageCode:  lang,
				Kind:          models.KindStandard,
				DisplayName:   entry.Name,
				SourceLocator: entry.URL,
			}},
			Format:   subtitle.FormatSRT,
			Language: models.LangCommunity,
		}, nil
	}
	return nil, nil
}
