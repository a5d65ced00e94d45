// Package emphasis splits display text into plain, bold and italic spans
// without a general markup renderer.
package emphasis

import (
	"regexp"
	"strings"
)

// Kind is the emphasis style of a span.
type Kind string

// Span kinds.
const (
	Plain  Kind = "plain"
	Bold   Kind = "bold"
	Italic Kind = "italic"
)

// Span is one styled run of text. Delim is the delimiter the run was wrapped in
// (empty for Plain).
type Span struct {
	Kind  Kind   `json:"kind"`
	Text  string `json:"text"`
	Delim string `json:"-"`
}

// delimiters in priority order; the index matches the capture group of emphasisPattern.
var delimiters = []struct {
	delim string
	kind  Kind
}{
	{"**", Bold},
	{"__", Bold},
	{"*", Italic},
	{"_", Italic},
}

// emphasisPattern is leftmost-first: the earliest match wins, ties go to the earlier alternative.
var emphasisPattern = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__|\*(.+?)\*|_(.+?)_`)

// Tokenize splits text into spans. Unbalanced delimiters stay in Plain spans.
func Tokenize(text string) []Span {
	matches := emphasisPattern.FindAllStringSubmatchIndex(text, -1)
	spans := make([]Span, 0, 2*len(matches)+1)

	pos := 0
	for _, loc := range matches {
		if loc[0] > pos {
			spans = append(spans, Span{Kind: Plain, Text: text[pos:loc[0]]})
		}
		for i, d := range delimiters {
			start, end := loc[2+2*i], loc[3+2*i]
			if start < 0 {
				continue
			}
			spans = append(spans, Span{Kind: d.kind, Text: text[start:end], Delim: d.delim})
			break
		}
		pos = loc[1]
	}
	if pos < len(text) {
		spans = append(spans, Span{Kind: Plain, Text: text[pos:]})
	}
	return spans
}

// Render re-wraps styled spans in their delimiters and concatenates everything.
// Render(Tokenize(s)) == s for every s.
func Render(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Delim)
		b.WriteString(s.Text)
		b.WriteString(s.Delim)
	}
	return b.String()
}

// PlainText concatenates span texts with all delimiters stripped.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
