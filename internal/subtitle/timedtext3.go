package subtitle

import (
	"encoding/xml"
	"fmt"
	"html"
	"strconv"
	"strings"

	"capsearch/internal/models"
)

// defaultParagraphMillis is the duration assumed for a <p> element whose "d"
// attribute is absent.
const defaultParagraphMillis = 2000

// timedText3 models the "format 3" timed-text document:
// <timedtext><body><p t="12597" d="1741">...</p></body></timedtext>.
// Times are milliseconds. Auto-generated tracks split a paragraph into <s>
// word spans.
type timedText3 struct {
	XMLName xml.Name       `xml:"timedtext"`
	Body    timedText3Body `xml:"body"`
}

type timedText3Body struct {
	Paragraphs []timedText3Para `xml:"p"`
}

type timedText3Para struct {
	T         string           `xml:"t,attr"`
	D         string           `xml:"d,attr"`
	Content   string           `xml:",chardata"`
	Sentences []timedText3Span `xml:"s"`
}

type timedText3Span struct {
	Text string `xml:",chardata"`
}

func (p timedText3Para) text() string {
	if len(p.Sentences) == 0 {
		return p.Content
	}
	var sb strings.Builder
	sb.WriteString(p.Content)
	for _, s := range p.Sentences {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// ParseTimedText3 parses the format-3 timed-text XML format. The "t" and "d"
// attributes are milliseconds and are converted to seconds; a missing "d"
// defaults to 2000 ms. Malformed individual paragraphs are skipped.
func ParseTimedText3(text string) ([]Segment, error) {
	var doc timedText3
	if err := xml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: timedtext3 XML: %v", models.ErrUnparsableFormat, err)
	}

	segments := make([]Segment, 0, len(doc.Body.Paragraphs))
	for _, p := range doc.Body.Paragraphs {
		startMs, err := strconv.ParseInt(p.T, 10, 64)
		if err != nil {
			continue
		}
		durMs := int64(defaultParagraphMillis)
		if p.D != "" {
			if parsed, err := strconv.ParseInt(p.D, 10, 64); err == nil {
				durMs = parsed
			}
		}
		segments = append(segments, Segment{
			Start:    float64(startMs) / 1000.0,
			Duration: float64(durMs) / 1000.0,
			Text:     html.UnescapeString(p.text()),
		})
	}
	return segments, nil
}
