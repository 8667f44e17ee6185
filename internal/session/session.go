// Package session manages per-video caption state: the current cue list and
// its search index, the in-flight load guard, and supersession of stale
// results.
package session

import (
	"context"
	"sync"

	"capsearch/internal/cache"
	"capsearch/internal/logger"
	"capsearch/internal/models"
	"capsearch/internal/pipeline"
	"capsearch/internal/search"
	"capsearch/internal/source"
)

// Loader runs one acquisition cycle. Implemented by pipeline.Orchestrator.
type Loader interface {
	Load(ctx context.Context, req pipeline.Request) (*models.AcquisitionResult, error)
}

// Manager manages all active video sessions.
type Manager struct {
	mutex    sync.RWMutex
	sessions map[string]*VideoSession
	logger   logger.Logger
	loader   Loader
	cache    *cache.ResultCache
}

// NewManager creates a new session manager and its result cache.
func NewManager(log logger.Logger, loader Loader) *Manager {
	m := &Manager{
		sessions: make(map[string]*VideoSession),
		logger:   log,
		loader:   loader,
	}
	m.cache = cache.New(log, m.ActiveResultKeys)
	return m
}

// Start begins the background workers for the manager's components.
func (m *Manager) Start() {
	m.cache.Start()
}

// Stop gracefully shuts down background workers.
func (m *Manager) Stop() {
	m.logger.Infof("Stopping session manager...")
	m.cache.Stop()
}

// GetOrCreateSession retrieves an existing session or creates a new one. A
// new session holds no captions until its first Load.
func (m *Manager) GetOrCreateSession(videoID string) *VideoSession {
	m.mutex.RLock()
	sess, found := m.sessions[videoID]
	m.mutex.RUnlock()
	if found {
		return sess
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if sess, found = m.sessions[videoID]; found {
		return sess
	}

	m.logger.Infof("Creating new caption session for video %s", videoID)
	sess = &VideoSession{
		VideoID: videoID,
		logger:  m.logger,
		loader:  m.loader,
		cache:   m.cache,
	}
	m.sessions[videoID] = sess
	return sess
}

// ActiveResultKeys reports the cache keys still referenced by a session, so
// the eviction worker keeps them.
func (m *Manager) ActiveResultKeys() map[string]struct{} {
	active := make(map[string]struct{})
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, sess := range m.sessions {
		sess.stateMu.RLock()
		if sess.cacheKey != "" {
			active[sess.cacheKey] = struct{}{}
		}
		sess.stateMu.RUnlock()
	}
	return active
}

// VideoSession holds the caption state for a single video.
type VideoSession struct {
	VideoID string
	logger  logger.Logger
	loader  Loader
	cache   *cache.ResultCache

	// loadMu serializes load cycles; a cycle already in flight is never
	// restarted concurrently.
	loadMu  sync.Mutex
	loading bool
	done    chan struct{}

	// stateMu guards the committed state. The current result stays valid and
	// queryable until a replacement is fully assembled, then is swapped
	// atomically.
	stateMu    sync.RWMutex
	generation int
	current    *models.AcquisitionResult
	index      *search.Index
	lastLoaded string
	customFile *source.ImportedFile
	cacheKey   string
}

// Load runs one acquisition cycle for the requested language and commits the
// result. If a cycle is already in flight the caller waits for it and
// receives its outcome instead of restarting it.
func (s *VideoSession) Load(ctx context.Context, language string) (*models.AcquisitionResult, error) {
	for {
		s.loadMu.Lock()
		if !s.loading {
			s.loading = true
			s.done = make(chan struct{})
			s.loadMu.Unlock()
			break
		}
		done := s.done
		s.loadMu.Unlock()
		select {
		case <-done:
			if res, ok := s.Current(); ok {
				return res, nil
			}
			// The joined cycle failed; run our own.
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	defer func() {
		s.loadMu.Lock()
		s.loading = false
		close(s.done)
		s.loadMu.Unlock()
	}()

	s.stateMu.RLock()
	gen := s.generation
	lastLoaded := s.lastLoaded
	customFile := s.customFile
	s.stateMu.RUnlock()

	key := cache.Key(s.VideoID, language)
	if language != models.LangCustomFile {
		if cached, found := s.cache.Get(key); found {
			s.logger.Debugf("Result cache hit for %s", key)
			s.commit(gen, key, cached)
			return cached, nil
		}
	}

	result, err := s.loader.Load(ctx, pipeline.Request{
		VideoID:    s.VideoID,
		Language:   language,
		LastLoaded: lastLoaded,
		File:       customFile,
	})
	if err != nil {
		return nil, err
	}

	if language != models.LangCustomFile {
		s.cache.Set(key, result)
	}
	if !s.commit(gen, key, result) {
		s.logger.Infof("Discarding superseded result for video %s", s.VideoID)
	}
	return result, nil
}

// commit swaps in a fully assembled result. Results from a cycle that
// started before an invalidation are discarded: the generation captured at
// cycle start must still be current.
func (s *VideoSession) commit(gen int, key string, result *models.AcquisitionResult) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if gen != s.generation {
		return false
	}
	s.current = result
	s.index = search.New(result.Cues)
	s.cacheKey = key
	if result.SelectedLanguage != models.LangCustomFile && result.SelectedLanguage != models.LangCommunity {
		s.lastLoaded = result.SelectedLanguage
	}
	return true
}

// Import stores a user-supplied subtitle file, parses it, and makes it the
// session's current captions.
func (s *VideoSession) Import(file source.ImportedFile) (*models.AcquisitionResult, error) {
	cues, err := source.ImportFile(file)
	if err != nil {
		return nil, err
	}
	if len(cues) == 0 {
		return nil, &pipeline.LoadError{Reason: models.ErrEmptyResult, Message: "imported file yielded no usable cues"}
	}

	result := &models.AcquisitionResult{
		Cues:             cues,
		SelectedLanguage: models.LangCustomFile,
		Source:           "file-import",
	}

	s.stateMu.Lock()
	s.customFile = &file
	s.generation++
	gen := s.generation
	s.stateMu.Unlock()

	s.commit(gen, cache.Key(s.VideoID, models.LangCustomFile), result)
	return result, nil
}

// Invalidate clears the session's state. Results of an in-flight cycle that
// started before the invalidation will be discarded on arrival, and any
// imported-file state is dropped.
func (s *VideoSession) Invalidate() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.generation++
	s.current = nil
	s.index = nil
	s.lastLoaded = ""
	s.customFile = nil
	s.cacheKey = ""
}

// Current returns the committed result, if any.
func (s *VideoSession) Current() (*models.AcquisitionResult, bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

// Search queries the current index. ok is false when nothing is loaded.
func (s *VideoSession) Search(query string) (search.Result, bool) {
	s.stateMu.RLock()
	ix := s.index
	s.stateMu.RUnlock()
	if ix == nil {
		return search.Result{}, false
	}
	return ix.Search(query), true
}

// ActiveCueAt returns the cue active at the given playback time.
func (s *VideoSession) ActiveCueAt(t float64) (models.Cue, bool) {
	s.stateMu.RLock()
	ix := s.index
	s.stateMu.RUnlock()
	if ix == nil {
		return models.Cue{}, false
	}
	return ix.ActiveCueAt(t)
}
