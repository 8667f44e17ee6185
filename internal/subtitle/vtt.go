package subtitle

import (
	"bufio"
	"fmt"
	"strings"

	"capsearch/internal/models"
)

// ParseVTT parses WebVTT text. The WEBVTT header line and cue identifier
// lines are discarded; a cue is a "START --> END" timestamp line (dot decimal
// separator, trailing cue-settings tokens stripped) followed by text lines up
// to the next blank line, joined with a single space. Inline tags are
// removed. Malformed cues are skipped.
func ParseVTT(text string) ([]Segment, error) {
	var segments []Segment
	sawTiming := false

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.Contains(line, "-->") {
			// Header, cue identifier, NOTE, or blank line.
			continue
		}
		sawTiming = true
		start, end, ok := parseTimingLine(line)

		var textLines []string
		for scanner.Scan() {
			cueLine := strings.TrimSpace(scanner.Text())
			if cueLine == "" {
				break
			}
			cueLine = markupTags.ReplaceAllString(cueLine, "")
			if cueLine != "" {
				textLines = append(textLines, cueLine)
			}
		}
		if !ok {
			continue
		}
		segments = append(segments, Segment{
			Start:    start,
			Duration: end - start,
			Text:     strings.Join(textLines, " "),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: VTT: %v", models.ErrUnparsableFormat, err)
	}
	if !sawTiming && strings.TrimSpace(text) != "" && !strings.HasPrefix(strings.TrimSpace(text), "WEBVTT") {
		return nil, fmt.Errorf("%w: no VTT timing lines found", models.ErrUnparsableFormat)
	}
	return segments, nil
}
