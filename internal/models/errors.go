package models

import "errors"

// Terminal error kinds surfaced by the acquisition pipeline. Individual
// strategy failures are absorbed and reported as "no result"; only the
// orchestrator, after exhausting all strategies, wraps one of these into the
// error returned to the caller.
var (
	// ErrNoVideoID means no video identifier was supplied for the cycle.
	ErrNoVideoID = errors.New("no video identifier")
	// ErrNoTracksFound means no source exposed any caption track.
	ErrNoTracksFound = errors.New("no caption tracks found")
	// ErrFetchFailed means a network or HTTP failure fetching a track listing
	// or a caption payload.
	ErrFetchFailed = errors.New("caption fetch failed")
	// ErrUnparsableFormat means a payload could not be parsed as its declared
	// wire format.
	ErrUnparsableFormat = errors.New("unparsable caption format")
	// ErrUnsupportedExtension means a file import carried an extension other
	// than srt or vtt.
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	// ErrEmptyResult means a fetch succeeded but yielded zero usable cues
	// after assembly.
	ErrEmptyResult = errors.New("no usable cues")
)
