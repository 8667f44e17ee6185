package subtitle

import (
	"fmt"
	"strings"

	"capsearch/internal/models"
	"capsearch/internal/timecode"
)

// ParseSRT parses SubRip text. Blocks are separated by a blank line; each
// block is an optional numeric index line (discarded), a "START --> END"
// timestamp line with a comma decimal separator, then one or more text lines
// joined with a single space. Malformed blocks are skipped.
func ParseSRT(text string) ([]Segment, error) {
	var segments []Segment
	sawTiming := false
	for _, block := range splitBlocks(text) {
		lines := block
		// Leading numeric index line, when present.
		if len(lines) > 1 && isIndexLine(lines[0]) {
			lines = lines[1:]
		}
		if len(lines) == 0 || !strings.Contains(lines[0], "-->") {
			continue
		}
		sawTiming = true
		start, end, ok := parseTimingLine(lines[0])
		if !ok {
			continue
		}
		body := strings.Join(lines[1:], " ")
		segments = append(segments, Segment{
			Start:    start,
			Duration: end - start,
			Text:     body,
		})
	}
	if !sawTiming && strings.TrimSpace(text) != "" {
		return nil, fmt.Errorf("%w: no SRT timing lines found", models.ErrUnparsableFormat)
	}
	return segments, nil
}

// splitBlocks normalizes line endings and splits into blank-line separated
// blocks of trimmed, non-empty lines.
func splitBlocks(text string) [][]string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(normalized, "\n\n")
	blocks := make([][]string, 0, len(parts))
	for _, part := range parts {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			blocks = append(blocks, lines)
		}
	}
	return blocks
}

func isIndexLine(line string) bool {
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return line != ""
}

// parseTimingLine parses "START --> END". Trailing tokens after the end
// timestamp (VTT cue settings) are ignored.
func parseTimingLine(line string) (start, end float64, ok bool) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	startText := strings.TrimSpace(parts[0])
	endFields := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endFields) == 0 {
		return 0, 0, false
	}
	var err error
	if start, err = timecode.ParseTimestamp(startText); err != nil {
		return 0, 0, false
	}
	if end, err = timecode.ParseTimestamp(endFields[0]); err != nil {
		return 0, 0, false
	}
	return start, end, true
}
