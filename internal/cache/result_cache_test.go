package cache

import (
	"io"
	"testing"

	"capsearch/internal/logger"
	"capsearch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(provider ActiveKeysProvider) *ResultCache {
	return New(logger.NewWithWriter("error", io.Discard), provider)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "vid123|en", Key("vid123", "en"))
}

func TestSetAndGet(t *testing.T) {
	rc := testCache(func() map[string]struct{} { return nil })

	result := &models.AcquisitionResult{SelectedLanguage: "en"}
	rc.Set(Key("vid123", "en"), result)

	got, found := rc.Get(Key("vid123", "en"))
	require.True(t, found)
	assert.Same(t, result, got)

	_, found = rc.Get(Key("vid123", "fr"))
	assert.False(t, found)
}

func TestEvictionKeepsActiveKeys(t *testing.T) {
	active := map[string]struct{}{Key("vid123", "en"): {}}
	rc := testCache(func() map[string]struct{} { return active })

	rc.Set(Key("vid123", "en"), &models.AcquisitionResult{})
	rc.Set(Key("vid123", "fr"), &models.AcquisitionResult{})
	rc.Set(Key("stale", "en"), &models.AcquisitionResult{})

	rc.runEviction()

	_, found := rc.Get(Key("vid123", "en"))
	assert.True(t, found)
	_, found = rc.Get(Key("vid123", "fr"))
	assert.False(t, found)
	_, found = rc.Get(Key("stale", "en"))
	assert.False(t, found)
}

func TestStartStop(t *testing.T) {
	rc := testCache(func() map[string]struct{} { return nil })
	rc.Start()
	rc.Stop()
}
