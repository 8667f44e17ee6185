package subtitle_test

import (
	"testing"

	"capsearch/internal/models"
	"capsearch/internal/subtitle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVTT = `WEBVTT
Kind: captions
Language: en

00:00:01.000 --> 00:00:03.500 align:start position:0%
Hello <c.yellow>there</c>

cue-2
00:00:04.000 --> 00:00:06.000
You are a <b>bold</b> one.
`

func TestParseVTT(t *testing.T) {
	segments, err := subtitle.ParseVTT(sampleVTT)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, 1.0, segments[0].Start)
	assert.Equal(t, 2.5, segments[0].Duration)
	assert.Equal(t, "Hello there", segments[0].Text)

	assert.Equal(t, 4.0, segments[1].Start)
	assert.Equal(t, "You are a bold one.", segments[1].Text)
}

func TestParseVTTHeaderOnly(t *testing.T) {
	segments, err := subtitle.ParseVTT("WEBVTT\n")
	assert.NoError(t, err)
	assert.Empty(t, segments)
}

func TestParseVTTRejectsNonVTTInput(t *testing.T) {
	_, err := subtitle.ParseVTT("just some prose\nwith no cues")
	assert.ErrorIs(t, err, models.ErrUnparsableFormat)
}

func TestParseVTTShortTimestamps(t *testing.T) {
	text := "WEBVTT\n\n00:01.000 --> 00:02.000\nshort clock\n"
	segments, err := subtitle.ParseVTT(text)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, 1.0, segments[0].Start)
}
