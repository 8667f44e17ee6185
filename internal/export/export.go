// Package export renders the canonical cue list back out as subtitle text.
package export

import (
	"fmt"
	"strings"

	"capsearch/internal/models"
)

// RenderSRT renders cues as a SubRip document.
func RenderSRT(cues []models.Cue) string {
	var sb strings.Builder
	for i, c := range cues {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", clockTime(c.Start, ","), clockTime(c.End(), ",")))
		sb.WriteString(c.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderVTT renders cues as a WebVTT document.
func RenderVTT(cues []models.Cue) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n")
	for _, c := range cues {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s --> %s\n", clockTime(c.Start, "."), clockTime(c.End(), ".")))
		sb.WriteString(c.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// clockTime renders seconds as HH:MM:SS<sep>mmm.
func clockTime(seconds float64, sep string) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int(seconds*1000 + 0.5)
	h := millis / 3600000
	millis -= h * 3600000
	m := millis / 60000
	millis -= m * 60000
	s := millis / 1000
	millis -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d%s%03d", h, m, s, sep, millis)
}
