package source

import (
	"context"
	"fmt"
	"strings"

	"capsearch/internal/innertube"
	"capsearch/internal/logger"
	"capsearch/internal/subtitle"
)

// API queries the player endpoint under one client identity. The pipeline
// runs two instances: the primary (WEB) identity whose track payloads use the
// legacy XML format, and the secondary (ANDROID) identity, which often sees
// tracks the primary does not and requests format-3 payloads.
type API struct {
	client   *innertube.Client
	logger   logger.Logger
	name     string
	identity innertube.ClientIdentity
	format   subtitle.Format
}

// NewPrimaryAPI creates the primary API strategy.
func NewPrimaryAPI(client *innertube.Client, log logger.Logger, identity innertube.ClientIdentity) *API {
	return &API{
		client:   client,
		logger:   log,
		name:     "api-primary",
		identity: identity,
		format:   subtitle.FormatLegacyXML,
	}
}

// NewSecondaryAPI creates the backup API strategy with the alternate client
// identity.
func NewSecondaryAPI(client *innertube.Client, log logger.Logger, identity innertube.ClientIdentity) *API {
	return &API{
		client:   client,
		logger:   log,
		name:     "api-secondary",
		identity: identity,
		format:   subtitle.FormatTimedText3,
	}
}

// Name implements Strategy.
func (a *API) Name() string { return a.name }

// Discover implements Strategy.
func (a *API) Discover(ctx context.Context, req Request) (*Catalog, error) {
	if req.Page == nil || req.Page.APIKey == "" {
		return nil, nil
	}

	tracks, err := a.client.Player(ctx, a.identity, req.Page, req.VideoID, req.EffectiveLanguage())
	if err != nil {
		return nil, fmt.Errorf("player listing as %s: %w", a.identity.Name, err)
	}
	if len(tracks) == 0 {
		return nil, nil
	}

	if a.format == subtitle.FormatTimedText3 {
		for i := range tracks {
			tracks[i].SourceLocator = withFormatParam(tracks[i].SourceLocator, "srv3")
		}
	}
	a.logger.Debugf("%s exposed %d caption track(s) for video %s", a.name, len(tracks), req.VideoID)
	return &Catalog{Tracks: tracks, Format: a.format}, nil
}

// withFormatParam appends an explicit payload format to a track locator
// unless one is already present.
func withFormatParam(locator, format string) string {
	if strings.Contains(locator, "fmt=") {
		return locator
	}
	sep := "?"
	if strings.Contains(locator, "?") {
		sep = "&"
	}
	return locator + sep + "fmt=" + format
}
