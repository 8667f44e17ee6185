package models

// TrackKind distinguishes authored caption tracks from machine transcriptions.
type TrackKind string

const (
	KindStandard      TrackKind = "standard"
	KindAutoGenerated TrackKind = "auto-generated"
)

// Reserved language codes. The presentation layer passes these instead of a real
// language code to select a non-API source.
const (
	// LangCommunity requests the community subtitle repository explicitly.
	LangCommunity = "community"
	// LangCustomFile requests a previously imported user file.
	LangCustomFile = "custom"
)

// Cue is one timed caption unit. Cue lists produced by the assembler are sorted
// by Start ascending and do not overlap.
type Cue struct {
	// Start is the cue start time in seconds.
	Start float64 `json:"start"`
	// Duration is the cue duration in seconds.
	Duration float64 `json:"duration"`
	// Text is the caption body. It may contain inline markup that downstream
	// consumers may choose to strip.
	Text string `json:"text"`
}

// End returns the cue end time in seconds.
func (c Cue) End() float64 {
	return c.Start + c.Duration
}

// Track describes an available caption stream before its content is fetched.
// Tracks are produced transiently per acquisition attempt and never persisted.
type Track struct {
	LanguageCode string    `json:"languageCode"`
	Kind         TrackKind `json:"kind"`
	// DisplayName is a human-readable label; may be empty.
	DisplayName string `json:"displayName,omitempty"`
	// SourceLocator is an opaque fetchable reference used to retrieve the raw
	// caption payload.
	SourceLocator string `json:"-"`
}

// Label returns the display name, falling back to the language code.
func (t Track) Label() string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.LanguageCode
}

// AcquisitionResult is the output of one strategy attempt or of a whole load
// cycle. It is owned by the orchestrator for the duration of the cycle and is
// replaced wholesale on the next load.
type AcquisitionResult struct {
	Cues            []Cue   `json:"cues"`
	TracksAvailable []Track `json:"tracksAvailable"`
	// SelectedLanguage is the language actually loaded, or a reserved code for
	// externally supplied content (file import, community repository).
	SelectedLanguage string `json:"selectedLanguage"`
	// Source names the strategy that produced the cues.
	Source string `json:"source"`
}
