package subtitle_test

import (
	"testing"

	"capsearch/internal/models"
	"capsearch/internal/subtitle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLegacyXML(t *testing.T) {
	text := `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="1.04" dur="2.5">Hello &amp; welcome</text>
  <text start="3.54" dur="1.2"><font color="#fff">styled</font> text</text>
</transcript>`

	segments, err := subtitle.ParseLegacyXML(text)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, 1.04, segments[0].Start)
	assert.Equal(t, 2.5, segments[0].Duration)
	// The body is kept as inner XML, so the entity survives unmarshalling and
	// is decoded during the strip pass.
	assert.Equal(t, "Hello & welcome", segments[0].Text)

	assert.Equal(t, 3.54, segments[1].Start)
	assert.Equal(t, "styled text", segments[1].Text)
}

func TestParseLegacyXMLSkipsMalformedElements(t *testing.T) {
	text := `<transcript>
  <text start="oops" dur="1">skipped</text>
  <text start="2" dur="bad">kept, zero duration</text>
</transcript>`

	segments, err := subtitle.ParseLegacyXML(text)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, 2.0, segments[0].Start)
	assert.Equal(t, 0.0, segments[0].Duration)
}

func TestParseLegacyXMLRejectsNonXML(t *testing.T) {
	_, err := subtitle.ParseLegacyXML("{\"not\": \"xml\"}")
	assert.ErrorIs(t, err, models.ErrUnparsableFormat)
}
