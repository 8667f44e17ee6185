// Package source implements the pluggable caption acquisition strategies.
// Each strategy reports either raw track metadata, which the orchestrator
// resolves and fetches, or already-parsed cues. A strategy failure is never
// fatal to the pipeline: strategies absorb their own faults and report "no
// result".
package source

import (
	"context"

	"capsearch/internal/innertube"
	"capsearch/internal/models"
	"capsearch/internal/subtitle"
)

// Request carries the inputs of one acquisition attempt.
type Request struct {
	VideoID string
	// Language is the requested language code; may be one of the reserved
	// codes in models.
	Language string
	// LastLoaded is the language of the last successful load, if any.
	LastLoaded string
	// DefaultLanguage is the configured default.
	DefaultLanguage string
	// Page is the watch-page context fetched once at cycle start. Nil when
	// the page could not be fetched; strategies that need it report no
	// result.
	Page *innertube.PageContext
}

// EffectiveLanguage is the concrete language to look for, with reserved
// codes mapped to the default.
func (r Request) EffectiveLanguage() string {
	switch r.Language {
	case "", models.LangCommunity, models.LangCustomFile:
		return r.DefaultLanguage
	default:
		return r.Language
	}
}

// Catalog is what one strategy found. Either Tracks is non-empty (raw track
// metadata; the orchestrator picks one, fetches its payload, and parses it as
// Format) or Cues is non-empty (already-parsed content, e.g. a file import).
type Catalog struct {
	Tracks []models.Track
	// Format is the wire format of payloads fetched from Tracks.
	Format subtitle.Format
	// Cues is pre-parsed content; Tracks is empty when set.
	Cues []models.Cue
	// Language is the language of pre-parsed content, possibly a reserved
	// code meaning "externally supplied".
	Language string
}

// Strategy is one way of locating caption content for a video.
type Strategy interface {
	// Name identifies the strategy in provenance and logs.
	Name() string
	// Discover reports what this source has for the request. A nil catalog
	// with a nil error means the source has nothing; errors are diagnostic
	// only and never abort the pipeline.
	Discover(ctx context.Context, req Request) (*Catalog, error)
}
