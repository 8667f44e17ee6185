// Package track selects one caption track from a listing according to the
// language preference chain.
package track

import (
	"errors"

	"capsearch/internal/models"
)

// ErrNoTracks is returned when the track list is empty.
var ErrNoTracks = errors.New("no tracks to resolve")

// Resolve picks one track. Selection order, first match wins:
//
//  1. Exact match on the requested code.
//  2. Exact match on the last successfully loaded code.
//  3. Exact match on the configured default code (skipped when identical to
//     an already-tried code).
//  4. The first track in the list.
//
// A track is always returned when tracks is non-empty; user intent beats the
// default, which beats whatever happens to be first.
func Resolve(tracks []models.Track, requested, lastLoaded, defaultLang string) (models.Track, error) {
	if len(tracks) == 0 {
		return models.Track{}, ErrNoTracks
	}

	tried := make(map[string]bool, 3)
	for _, code := range []string{requested, lastLoaded, defaultLang} {
		if code == "" || tried[code] {
			continue
		}
		tried[code] = true
		for _, t := range tracks {
			if t.LanguageCode == code {
				return t, nil
			}
		}
	}
	return tracks[0], nil
}
