// Package pipeline runs the acquisition strategies in priority order and
// produces the canonical cue list with its provenance.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"capsearch/internal/fetch"
	"capsearch/internal/innertube"
	"capsearch/internal/logger"
	"capsearch/internal/models"
	"capsearch/internal/source"
	"capsearch/internal/subtitle"
	"capsearch/internal/track"
)

// Phase is the orchestrator's position within a load cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseFetching
	PhaseParsing
	PhaseReady
	PhaseFailed
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseFetching:
		return "fetching"
	case PhaseParsing:
		return "parsing"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// LoadError is a terminal cycle failure: a structured reason code plus a
// human-readable message for the presentation layer.
type LoadError struct {
	Reason  error
	Message string
}

// Error implements error.
func (e *LoadError) Error() string { return e.Message }

// Unwrap exposes the reason sentinel to errors.Is.
func (e *LoadError) Unwrap() error { return e.Reason }

// Request carries the caller-supplied inputs of one load cycle.
type Request struct {
	VideoID string
	// Language is the requested language code, possibly a reserved code.
	// Empty means the configured default.
	Language string
	// LastLoaded is the language of the previous successful load, if any.
	LastLoaded string
	// File is a previously imported user file, required when Language is
	// models.LangCustomFile.
	File *source.ImportedFile
}

// PageProvider fetches the per-cycle watch-page context.
type PageProvider interface {
	FetchPageContext(ctx context.Context, videoID string) (*innertube.PageContext, error)
}

// Orchestrator tries the strategies in fixed priority order, short-circuiting
// on the first non-empty cue list, and consults the community repository per
// its trigger rules. Strategies run strictly sequentially; an earlier success
// avoids the later sources' network calls entirely.
type Orchestrator struct {
	logger          logger.Logger
	pages           PageProvider
	fetcher         *fetch.Fetcher
	strategies      []source.Strategy
	community       source.Strategy
	defaultLanguage string

	mutex sync.RWMutex
	phase Phase
}

// New creates an orchestrator. strategies is the fixed-priority main chain
// (page-embedded, primary API, secondary API); community may be nil when the
// repository source is disabled.
func New(log logger.Logger, pages PageProvider, fetcher *fetch.Fetcher, strategies []source.Strategy, community source.Strategy, defaultLanguage string) *Orchestrator {
	return &Orchestrator{
		logger:          log,
		pages:           pages,
		fetcher:         fetcher,
		strategies:      strategies,
		community:       community,
		defaultLanguage: defaultLanguage,
	}
}

// Phase reports the most recent cycle's phase.
func (o *Orchestrator) Phase() Phase {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.phase
}

func (o *Orchestrator) setPhase(p Phase) {
	o.mutex.Lock()
	o.phase = p
	o.mutex.Unlock()
}

// Load runs one acquisition cycle and returns the final result. On failure
// the returned error is a *LoadError carrying the reason code.
func (o *Orchestrator) Load(ctx context.Context, req Request) (*models.AcquisitionResult, error) {
	if req.VideoID == "" {
		return nil, o.fail(models.ErrNoVideoID, "no video identifier")
	}

	o.setPhase(PhaseResolving)

	if req.Language == models.LangCustomFile {
		return o.loadImportedFile(ctx, req)
	}

	sreq := source.Request{
		VideoID:         req.VideoID,
		Language:        req.Language,
		LastLoaded:      req.LastLoaded,
		DefaultLanguage: o.defaultLanguage,
	}
	if page, err := o.pages.FetchPageContext(ctx, req.VideoID); err != nil {
		o.logger.Warnf("Watch page fetch failed for video %s: %v", req.VideoID, err)
	} else {
		sreq.Page = page
	}

	if req.Language == models.LangCommunity {
		result, outcome := o.attempt(ctx, o.community, sreq)
		if result == nil {
			return nil, o.fail(outcome.reason(), "community repository has no subtitles for this video")
		}
		o.setPhase(PhaseReady)
		return result, nil
	}

	var (
		result     *models.AcquisitionResult
		chosenKind models.TrackKind
		seen       trackSummary
	)
	for _, s := range o.strategies {
		r, outcome := o.attempt(ctx, s, sreq)
		seen.merge(outcome)
		if r != nil {
			result = r
			chosenKind = outcome.chosenKind
			break
		}
	}

	if o.shouldTryCommunity(req, result, chosenKind, seen) {
		if r, _ := o.attempt(ctx, o.community, sreq); r != nil {
			o.logger.Infof("Community repository subtitles replace %s result for video %s", provenanceOf(result), req.VideoID)
			result = r
		}
	}

	if result == nil {
		return nil, o.fail(seen.reason(), seen.message())
	}
	o.setPhase(PhaseReady)
	return result, nil
}

func provenanceOf(r *models.AcquisitionResult) string {
	if r == nil {
		return "empty"
	}
	return r.Source
}

// shouldTryCommunity applies the repository trigger rules: nothing else
// produced cues, or the only tracks found are auto-generated and the request
// is for the default language.
func (o *Orchestrator) shouldTryCommunity(req Request, result *models.AcquisitionResult, chosenKind models.TrackKind, seen trackSummary) bool {
	if o.community == nil {
		return false
	}
	if result == nil {
		return true
	}
	requestedDefault := req.Language == "" || req.Language == o.defaultLanguage
	return requestedDefault && chosenKind == models.KindAutoGenerated && seen.onlyAutoGenerated()
}

// trackSummary accumulates what the main chain saw, for the community
// trigger and for the terminal failure reason.
type trackSummary struct {
	sawTracks   bool
	sawStandard bool
	fetchFailed bool
	parseFailed bool
	emptyResult bool
	chosenKind  models.TrackKind
}

func (s *trackSummary) merge(o trackSummary) {
	s.sawTracks = s.sawTracks || o.sawTracks
	s.sawStandard = s.sawStandard || o.sawStandard
	s.fetchFailed = s.fetchFailed || o.fetchFailed
	s.parseFailed = s.parseFailed || o.parseFailed
	s.emptyResult = s.emptyResult || o.emptyResult
}

func (s trackSummary) onlyAutoGenerated() bool {
	return s.sawTracks && !s.sawStandard
}

func (s trackSummary) reason() error {
	switch {
	case !s.sawTracks:
		return models.ErrNoTracksFound
	case s.fetchFailed:
		return models.ErrFetchFailed
	case s.parseFailed:
		return models.ErrUnparsableFormat
	default:
		return models.ErrEmptyResult
	}
}

func (s trackSummary) message() string {
	switch {
	case !s.sawTracks:
		return "no caption tracks found for this video"
	case s.fetchFailed:
		return "failed to fetch caption data"
	case s.parseFailed:
		return "caption data could not be parsed"
	default:
		return "caption source yielded no usable cues"
	}
}

// attempt runs one strategy to completion: discover, resolve a track, fetch
// its payload, parse, and assemble. A nil result means the strategy produced
// nothing usable; the outcome records why.
func (o *Orchestrator) attempt(ctx context.Context, s source.Strategy, sreq source.Request) (*models.AcquisitionResult, trackSummary) {
	var outcome trackSummary
	if s == nil {
		return nil, outcome
	}

	o.setPhase(PhaseResolving)
	catalog, err := s.Discover(ctx, sreq)
	if err != nil {
		o.logger.Warnf("Strategy %s failed for video %s: %v", s.Name(), sreq.VideoID, err)
		if errors.Is(err, models.ErrFetchFailed) {
			outcome.fetchFailed = true
		}
		return nil, outcome
	}
	if catalog == nil {
		o.logger.Debugf("Strategy %s has nothing for video %s", s.Name(), sreq.VideoID)
		return nil, outcome
	}

	if len(catalog.Cues) > 0 {
		return &models.AcquisitionResult{
			Cues:             catalog.Cues,
			SelectedLanguage: catalog.Language,
			Source:           s.Name(),
		}, outcome
	}
	if len(catalog.Tracks) == 0 {
		return nil, outcome
	}

	outcome.sawTracks = true
	for _, t := range catalog.Tracks {
		if t.Kind == models.KindStandard {
			outcome.sawStandard = true
		}
	}

	chosen, err := track.Resolve(catalog.Tracks, sreq.EffectiveLanguage(), sreq.LastLoaded, sreq.DefaultLanguage)
	if err != nil {
		return nil, outcome
	}
	outcome.chosenKind = chosen.Kind
	o.logger.Infof("Strategy %s resolved track %s (%s) for video %s", s.Name(), chosen.Label(), chosen.Kind, sreq.VideoID)

	o.setPhase(PhaseFetching)
	payload, err := o.fetcher.Fetch(ctx, chosen.SourceLocator)
	if err != nil {
		o.logger.Warnf("Strategy %s payload fetch failed for video %s: %v", s.Name(), sreq.VideoID, err)
		outcome.fetchFailed = true
		return nil, outcome
	}

	o.setPhase(PhaseParsing)
	segments, err := subtitle.Parse(catalog.Format, string(payload))
	if err != nil {
		o.logger.Warnf("Strategy %s payload unparsable for video %s: %v", s.Name(), sreq.VideoID, err)
		outcome.parseFailed = true
		return nil, outcome
	}

	cues := subtitle.Assemble(segments)
	if len(cues) == 0 {
		o.logger.Warnf("Strategy %s yielded no usable cues for video %s", s.Name(), sreq.VideoID)
		outcome.emptyResult = true
		return nil, outcome
	}

	selected := chosen.LanguageCode
	if catalog.Language != "" {
		selected = catalog.Language
	}
	return &models.AcquisitionResult{
		Cues:             cues,
		TracksAvailable:  catalog.Tracks,
		SelectedLanguage: selected,
		Source:           s.Name(),
	}, outcome
}

func (o *Orchestrator) loadImportedFile(ctx context.Context, req Request) (*models.AcquisitionResult, error) {
	if req.File == nil {
		return nil, o.fail(models.ErrEmptyResult, "no imported file for this video")
	}

	o.setPhase(PhaseParsing)
	strategy := source.NewFileImport(*req.File)
	catalog, err := strategy.Discover(ctx, source.Request{VideoID: req.VideoID})
	if err != nil {
		if errors.Is(err, models.ErrUnsupportedExtension) {
			return nil, o.fail(models.ErrUnsupportedExtension, fmt.Sprintf("unsupported file extension %q", req.File.Extension))
		}
		return nil, o.fail(models.ErrUnparsableFormat, "imported file could not be parsed")
	}
	if len(catalog.Cues) == 0 {
		return nil, o.fail(models.ErrEmptyResult, "imported file yielded no usable cues")
	}

	o.setPhase(PhaseReady)
	return &models.AcquisitionResult{
		Cues:             catalog.Cues,
		SelectedLanguage: models.LangCustomFile,
		Source:           strategy.Name(),
	}, nil
}

func (o *Orchestrator) fail(reason error, message string) error {
	o.setPhase(PhaseFailed)
	return &LoadError{Reason: reason, Message: message}
}
