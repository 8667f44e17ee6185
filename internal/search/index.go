// Package search provides the query and time-lookup view over a cue list.
// The index performs no I/O and is rebuilt wholesale on every successful
// load.
package search

import (
	"regexp"
	"strings"

	"capsearch/internal/models"
)

// Match is one cue matching a query, with the byte-offset spans of each
// query occurrence in the cue text, for highlighting.
type Match struct {
	Cue models.Cue `json:"cue"`
	// Spans are [start, end) byte offsets into Cue.Text. Nil for an empty
	// query, where every cue matches trivially.
	Spans [][]int `json:"spans,omitempty"`
}

// Result is the outcome of one query.
type Result struct {
	Matches []Match `json:"matches"`
	// Found is the number of matching cues, Total the cue count.
	Found int `json:"found"`
	Total int `json:"total"`
}

// Index is a read-only view over one cue list plus a query capability. It
// holds the cues by reference; building it never copies cue text.
type Index struct {
	cues []models.Cue
}

// New builds an index over the given cue list. The list must already satisfy
// the assembler's sort and non-overlap invariants.
func New(cues []models.Cue) *Index {
	return &Index{cues: cues}
}

// Cues returns the underlying cue list.
func (ix *Index) Cues() []models.Cue {
	return ix.cues
}

// Search performs a case-insensitive substring query. An empty or
// whitespace-only query returns every cue with Found == Total. The query is
// matched literally; regular-expression metacharacters have no special
// meaning.
func (ix *Index) Search(query string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		matches := make([]Match, len(ix.cues))
		for i, c := range ix.cues {
			matches[i] = Match{Cue: c}
		}
		return Result{Matches: matches, Found: len(ix.cues), Total: len(ix.cues)}
	}

	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query))
	var matches []Match
	for _, c := range ix.cues {
		spans := pattern.FindAllStringIndex(c.Text, -1)
		if spans == nil {
			continue
		}
		matches = append(matches, Match{Cue: c, Spans: spans})
	}
	return Result{Matches: matches, Found: len(matches), Total: len(ix.cues)}
}

// ActiveCueAt returns the cue whose [start, start+duration] interval contains
// the given playback time. Cues are scanned in start order and the first
// containing cue wins, so at an instant shared by two adjacent cues the
// earlier one is returned.
func (ix *Index) ActiveCueAt(t float64) (models.Cue, bool) {
	for _, c := range ix.cues {
		if t >= c.Start && t <= c.End() {
			return c, true
		}
		if c.Start > t {
			break
		}
	}
	return models.Cue{}, false
}
