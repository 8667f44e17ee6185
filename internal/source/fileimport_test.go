package source_test

import (
	"context"
	"testing"

	"capsearch/internal/models"
	"capsearch/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importSRT = `1
00:00:01,000 --> 00:00:02,000
imported line
`

func TestImportFileSRT(t *testing.T) {
	cues, err := source.ImportFile(source.ImportedFile{Content: importSRT, Extension: "srt"})
	require.NoError(t, err)
	require.Len(t, cues, 1)
	assert.Equal(t, 1.0, cues[0].Start)
	assert.Equal(t, "imported line", cues[0].Text)
}

func TestImportFileExtensionNormalization(t *testing.T) {
	// Leading dot and upper case are accepted.
	cues, err := source.ImportFile(source.ImportedFile{Content: importSRT, Extension: ".SRT"})
	require.NoError(t, err)
	assert.Len(t, cues, 1)
}

func TestImportFileVTT(t *testing.T) {
	vtt := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nvtt line\n"
	cues, err := source.ImportFile(source.ImportedFile{Content: vtt, Extension: "vtt"})
	require.NoError(t, err)
	require.Len(t, cues, 1)
	assert.Equal(t, "vtt line", cues[0].Text)
}

func TestImportFileUnsupportedExtension(t *testing.T) {
	_, err := source.ImportFile(source.ImportedFile{Content: importSRT, Extension: "txt"})
	assert.ErrorIs(t, err, models.ErrUnsupportedExtension)
}

func TestImportFileUnparsableContent(t *testing.T) {
	_, err := source.ImportFile(source.ImportedFile{Content: "not a subtitle file", Extension: "srt"})
	assert.ErrorIs(t, err, models.ErrUnparsableFormat)
}

func TestFileImportStrategy(t *testing.T) {
	strategy := source.NewFileImport(source.ImportedFile{Content: importSRT, Extension: "srt"})
	assert.Equal(t, "file-import", strategy.Name())

	catalog, err := strategy.Discover(context.Background(), source.Request{VideoID: "vid"})
	require.NoError(t, err)
	require.NotNil(t, catalog)
	assert.Empty(t, catalog.Tracks)
	assert.Len(t, catalog.Cues, 1)
	assert.Equal(t, models.LangCustomFile, catalog.Language)
}
