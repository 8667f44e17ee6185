package source

import (
	"context"
	"fmt"

	"capsearch/internal/innertube"
	"capsearch/internal/logger"
	"capsearch/internal/subtitle"
)

// PageData reads the player-response blob already embedded in the watch page,
// needing no further listing round-trip. Highest priority: when the page
// carries tracks, no API call is made at all.
type PageData struct {
	logger logger.Logger
}

// NewPageData creates the page-embedded extractor strategy.
func NewPageData(log logger.Logger) *PageData {
	return &PageData{logger: log}
}

// Name implements Strategy.
func (p *PageData) Name() string { return "page-data" }

// Discover implements Strategy. Track payloads from the embedded blob use the
// legacy XML format.
func (p *PageData) Discover(ctx context.Context, req Request) (*Catalog, error) {
	if req.Page == nil || len(req.Page.PlayerResponse) == 0 {
		return nil, nil
	}

	tracks, err := innertube.ParsePlayerResponse(req.Page.PlayerResponse)
	if err != nil {
		return nil, fmt.Errorf("embedded player response: %w", err)
	}
	if len(tracks) == 0 {
		return nil, nil
	}
	p.logger.Debugf("Page data exposed %d caption track(s) for video %s", len(tracks), req.VideoID)
	return &Catalog{Tracks: tracks, Format: subtitle.FormatLegacyXML}, nil
}
