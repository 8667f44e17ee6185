package source

import (
	"context"
	"fmt"
	"strings"

	"capsearch/internal/models"
	"capsearch/internal/subtitle"
)

// ImportedFile is a user-supplied subtitle file: its raw text plus the
// declared extension.
type ImportedFile struct {
	Content string
	// Extension is the declared file extension without the dot: srt or vtt.
	Extension string
}

// FileImport serves a user-supplied file through the strategy interface.
type FileImport struct {
	file ImportedFile
}

// NewFileImport creates the file import strategy for one imported file.
func NewFileImport(file ImportedFile) *FileImport {
	return &FileImport{file: file}
}

// Name implements Strategy.
func (f *FileImport) Name() string { return "file-import" }

// Discover implements Strategy. The file is parsed and assembled directly;
// there are no alternative tracks to expose.
func (f *FileImport) Discover(ctx context.Context, req Request) (*Catalog, error) {
	cues, err := ImportFile(f.file)
	if err != nil {
		return nil, err
	}
	return &Catalog{Cues: cues, Language: models.LangCustomFile}, nil
}

// ImportFile parses a user-supplied file by its declared extension and
// assembles the canonical cue list. Extensions other than srt and vtt are a
// declared error, never a guess.
func ImportFile(file ImportedFile) ([]models.Cue, error) {
	var format subtitle.Format
	switch strings.ToLower(strings.TrimPrefix(file.Extension, ".")) {
	case "srt":
		format = subtitle.FormatSRT
	case "vtt":
		format = subtitle.FormatVTT
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedExtension, file.Extension)
	}

	segments, err := subtitle.Parse(format, file.Content)
	if err != nil {
		return nil, err
	}
	return subtitle.Assemble(segments), nil
}
