package innertube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"capsearch/internal/models"
)

// ClientIdentity is the client name/version pair sent in the player request
// context. Different identities expose different or more-complete track lists
// upstream.
type ClientIdentity struct {
	Name    string
	Version string
}

type playerRequest struct {
	Context playerContext `json:"context"`
	VideoID string        `json:"videoId"`
}

type playerContext struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	HL            string `json:"hl,omitempty"`
	GL            string `json:"gl,omitempty"`
	VisitorData   string `json:"visitorData,omitempty"`
}

// PlayerResponse is the subset of the player API response this pipeline
// needs: an array of caption track descriptors.
type PlayerResponse struct {
	Captions struct {
		Renderer struct {
			CaptionTracks []CaptionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// CaptionTrack is one upstream track descriptor.
type CaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	// Kind is "asr" for auto-generated tracks, empty for authored ones.
	Kind string `json:"kind"`
	Name struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

// Track converts the upstream descriptor to the canonical model.
func (t CaptionTrack) Track() models.Track {
	kind := models.KindStandard
	if t.Kind == "asr" {
		kind = models.KindAutoGenerated
	}
	return models.Track{
		LanguageCode:  t.LanguageCode,
		Kind:          kind,
		DisplayName:   t.Name.SimpleText,
		SourceLocator: t.BaseURL,
	}
}

// Tracks extracts the canonical track list from a player response.
func (pr *PlayerResponse) Tracks() []models.Track {
	upstream := pr.Captions.Renderer.CaptionTracks
	tracks := make([]models.Track, 0, len(upstream))
	for _, t := range upstream {
		if t.BaseURL == "" || t.LanguageCode == "" {
			continue
		}
		tracks = append(tracks, t.Track())
	}
	return tracks
}

// ParsePlayerResponse decodes a raw player-response JSON blob and returns its
// track list. Used for both API responses and the page-embedded blob.
func ParsePlayerResponse(raw []byte) ([]models.Track, error) {
	var pr PlayerResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player response: %w", err)
	}
	return pr.Tracks(), nil
}

// Player queries the player API with the given client identity and returns
// the available caption tracks for the video.
func (c *Client) Player(ctx context.Context, identity ClientIdentity, page *PageContext, videoID, hl string) ([]models.Track, error) {
	if page == nil || page.APIKey == "" {
		return nil, fmt.Errorf("no API key available for player request")
	}

	payload := playerRequest{
		Context: playerContext{
			Client: playerClient{
				ClientName:    identity.Name,
				ClientVersion: identity.Version,
				HL:            hl,
				GL:            "US",
				VisitorData:   page.VisitorData,
			},
		},
		VideoID: videoID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal player request: %w", err)
	}

	endpoint := fmt.Sprintf("%s?key=%s", c.playerURL, url.QueryEscape(page.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create player request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debugf("Requesting player data as %s/%s for video %s", identity.Name, identity.Version, videoID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: player request: %v", models.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: player endpoint returned status %d", models.ErrFetchFailed, resp.StatusCode)
	}

	var pr PlayerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("failed to decode player response: %w", err)
	}
	return pr.Tracks(), nil
}
