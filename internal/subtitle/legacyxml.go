package subtitle

import (
	"encoding/xml"
	"fmt"
	"html"
	"regexp"
	"strconv"

	"capsearch/internal/models"
)

// legacyTranscript is the root element of the legacy timed-text format:
// <transcript><text start="1.23" dur="4.56">...</text></transcript>.
type legacyTranscript struct {
	XMLName xml.Name     `xml:"transcript"`
	Texts   []legacyText `xml:"text"`
}

type legacyText struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	// Body is kept as inner XML so inline markup survives; tags are stripped
	// and entities decoded afterwards.
	Body string `xml:",innerxml"`
}

var markupTags = regexp.MustCompile(`<[^>]*>`)

// ParseLegacyXML parses the legacy timed-text XML format. Start and duration
// attributes are seconds as decimal strings; HTML entities in the text are
// decoded. Individual malformed elements are skipped so a partially corrupt
// payload still yields its salvageable cues.
func ParseLegacyXML(text string) ([]Segment, error) {
	var doc legacyTranscript
	if err := xml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: legacy XML: %v", models.ErrUnparsableFormat, err)
	}

	segments := make([]Segment, 0, len(doc.Texts))
	for _, el := range doc.Texts {
		start, err := strconv.ParseFloat(el.Start, 64)
		if err != nil {
			continue
		}
		dur, err := strconv.ParseFloat(el.Dur, 64)
		if err != nil {
			dur = 0
		}
		segments = append(segments, Segment{
			Start:    start,
			Duration: dur,
			Text:     html.UnescapeString(markupTags.ReplaceAllString(el.Body, "")),
		})
	}
	return segments, nil
}
