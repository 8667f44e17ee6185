package export_test

import (
	"testing"

	"capsearch/internal/export"
	"capsearch/internal/models"

	"github.com/stretchr/testify/assert"
)

func exportCues() []models.Cue {
	return []models.Cue{
		{Start: 1.0, Duration: 2.5, Text: "Hello there"},
		{Start: 4.0, Duration: 2.0, Text: "General Kenobi"},
	}
}

func TestRenderSRT(t *testing.T) {
	want := `1
00:00:01,000 --> 00:00:03,500
Hello there

2
00:00:04,000 --> 00:00:06,000
General Kenobi
`
	assert.Equal(t, want, export.RenderSRT(exportCues()))
}

func TestRenderVTT(t *testing.T) {
	want := `WEBVTT

00:00:01.000 --> 00:00:03.500
Hello there

00:00:04.000 --> 00:00:06.000
General Kenobi
`
	assert.Equal(t, want, export.RenderVTT(exportCues()))
}

func TestRenderSRTHourRollover(t *testing.T) {
	out := export.RenderSRT([]models.Cue{{Start: 3723.5, Duration: 1, Text: "late"}})
	assert.Contains(t, out, "01:02:03,500 --> 01:02:04,500")
}

func TestRenderEmptyCueList(t *testing.T) {
	assert.Equal(t, "", export.RenderSRT(nil))
	assert.Equal(t, "WEBVTT\n", export.RenderVTT(nil))
}
