// Package timecode converts between textual timestamp representations and a
// canonical floating-point seconds value.
package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadTimestamp is returned for input that matches none of the accepted
// timestamp shapes. Parsing never silently yields zero.
var ErrBadTimestamp = errors.New("bad timestamp")

// ParseTimestamp parses a timestamp into seconds. Accepted shapes:
//
//	H:MM:SS.mmm
//	MM:SS.mmm
//	raw millisecond integers (segment-based formats)
//
// A comma decimal separator (SRT convention) is normalized to a dot before
// parsing.
func ParseTimestamp(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrBadTimestamp)
	}
	s = strings.ReplaceAll(s, ",", ".")

	if !strings.Contains(s, ":") {
		// Raw millisecond integer.
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil || ms < 0 {
			return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, text)
		}
		return float64(ms) / 1000.0, nil
	}

	parts := strings.Split(s, ":")
	var hours, minutes int64
	var seconds float64
	var err error
	switch len(parts) {
	case 3:
		if hours, err = strconv.ParseInt(parts[0], 10, 64); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, text)
		}
		parts = parts[1:]
	case 2:
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, text)
	}
	if minutes, err = strconv.ParseInt(parts[0], 10, 64); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, text)
	}
	if seconds, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, text)
	}
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, text)
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

// FormatTimestamp renders seconds as "M:SS" for display. Minutes are
// unbounded, seconds are zero-padded to two digits. This is a lossy,
// display-only inverse of ParseTimestamp and is not used for re-parsing.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
