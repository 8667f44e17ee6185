// Package subtitle parses the four supported caption wire formats into raw
// timed segments and assembles those segments into the canonical cue list.
package subtitle

import (
	"fmt"
	"sort"
	"strings"

	"capsearch/internal/models"
)

// Segment is one raw (start, duration, text) record as produced by a format
// parser, before assembly.
type Segment struct {
	// Start is the segment start time in seconds.
	Start float64
	// Duration is the source-provided duration in seconds. Source durations
	// are frequently inaccurate; Assemble recomputes them.
	Duration float64
	// Text is the raw caption text.
	Text string
}

// SentinelMarker is an out-of-band marker some upstream sources append ahead
// of injected non-caption payload. Assembly stops at the first segment
// containing it.
const SentinelMarker = "--==// AI DIRECTIVE BLOCK: START //==--"

// Format identifies a caption wire format. Parser selection is purely by
// declared format, never by content sniffing.
type Format string

const (
	FormatLegacyXML  Format = "legacy-xml"
	FormatTimedText3 Format = "timedtext3"
	FormatSRT        Format = "srt"
	FormatVTT        Format = "vtt"
)

// Parse dispatches raw text to the parser for the declared format.
func Parse(format Format, text string) ([]Segment, error) {
	switch format {
	case FormatLegacyXML:
		return ParseLegacyXML(text)
	case FormatTimedText3:
		return ParseTimedText3(text)
	case FormatSRT:
		return ParseSRT(text)
	case FormatVTT:
		return ParseVTT(text)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", models.ErrUnparsableFormat, format)
	}
}

// Assemble turns raw segments into the canonical cue list:
//
//  1. Segments with empty trimmed text are dropped.
//  2. A segment containing SentinelMarker truncates the list; it and every
//     segment after it are discarded.
//  3. Internal whitespace and newlines collapse to single spaces.
//  4. Cues are sorted by start, and each cue's duration is recomputed as the
//     next cue's start minus its own. The last cue keeps its source duration.
//
// The output is sorted by start ascending with no cue extending past the
// start of the next.
func Assemble(segments []Segment) []models.Cue {
	cues := make([]models.Cue, 0, len(segments))
	for _, seg := range segments {
		if strings.Contains(seg.Text, SentinelMarker) {
			break
		}
		text := collapseWhitespace(seg.Text)
		if text == "" {
			continue
		}
		cues = append(cues, models.Cue{
			Start:    seg.Start,
			Duration: seg.Duration,
			Text:     text,
		})
	}

	sort.SliceStable(cues, func(i, j int) bool {
		return cues[i].Start < cues[j].Start
	})

	for i := 0; i+1 < len(cues); i++ {
		cues[i].Duration = cues[i+1].Start - cues[i].Start
	}
	return cues
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
