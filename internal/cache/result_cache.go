package cache

import (
	"context"
	"sync"
	"time"

	"capsearch/internal/logger"
	"capsearch/internal/models"
)

// ActiveKeysProvider returns the set of cache keys still referenced by an
// active session; everything else is eligible for eviction.
type ActiveKeysProvider func() map[string]struct{}

// ResultCache is a thread-safe, in-memory cache of assembled acquisition
// results, keyed by video identifier and language. Switching back to a
// recently viewed video reuses the cached result instead of re-running the
// acquisition pipeline.
type ResultCache struct {
	mutex    sync.RWMutex
	cache    map[string]*models.AcquisitionResult
	logger   logger.Logger
	provider ActiveKeysProvider

	// Control
	ctx    context.Context
	cancel context.CancelFunc
}

// Key builds the cache key for a video/language pair.
func Key(videoID, language string) string {
	return videoID + "|" + language
}

// New creates and returns a new ResultCache.
func New(log logger.Logger, provider ActiveKeysProvider) *ResultCache {
	ctx, cancel := context.WithCancel(context.Background())
	return &ResultCache{
		cache:    make(map[string]*models.AcquisitionResult),
		logger:   log,
		provider: provider,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the background eviction worker.
func (rc *ResultCache) Start() {
	rc.logger.Infof("Starting result cache eviction worker...")
	go rc.evictionWorker()
}

// Stop gracefully shuts down the eviction worker.
func (rc *ResultCache) Stop() {
	rc.logger.Infof("Stopping result cache eviction worker...")
	rc.cancel()
}

// Set stores a result.
func (rc *ResultCache) Set(key string, result *models.AcquisitionResult) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()
	rc.cache[key] = result
	rc.logger.Debugf("Cached result: %s, %d cues", key, len(result.Cues))
}

// Get retrieves a cached result.
func (rc *ResultCache) Get(key string) (*models.AcquisitionResult, bool) {
	rc.mutex.RLock()
	defer rc.mutex.RUnlock()
	result, found := rc.cache[key]
	return result, found
}

// evictionWorker runs in the background to drop results no session still
// references.
func (rc *ResultCache) evictionWorker() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-rc.ctx.Done():
			rc.logger.Infof("Result cache eviction worker stopped.")
			return
		case <-ticker.C:
			rc.runEviction()
		}
	}
}

func (rc *ResultCache) runEviction() {
	activeKeys := rc.provider()

	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	evicted := 0
	for key := range rc.cache {
		if _, isActive := activeKeys[key]; !isActive {
			delete(rc.cache, key)
			evicted++
		}
	}

	if evicted > 0 {
		rc.logger.Infof("Evicted %d results from cache. Current cache size: %d.", evicted, len(rc.cache))
	} else {
		rc.logger.Debugf("No results to evict. Current cache size: %d.", len(rc.cache))
	}
}
