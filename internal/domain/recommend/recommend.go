package recommend

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/mode"
)

// Sentence composition limits.
const (
	headSize      = 2
	restSize      = 3
	secondarySize = 3
)

const (
	investorReason = "for potential investment opportunities or partnerships"
	otherReason    = "for potential opportunities"
)

// Buckets holds unique display names split by investor role, in match order.
type Buckets struct {
	Investors []string
	Others    []string
}

// Bucket extracts de-duplicated display names and partitions them.
// Matches without a usable name are skipped; the first occurrence of a name wins.
func Bucket(matches []match.Match) Buckets {
	var b Buckets
	seen := make(map[string]struct{}, len(matches))
	for i := range matches {
		m := &matches[i]
		name := m.DisplayName()
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if m.IsInvestor() {
			b.Investors = append(b.Investors, name)
		} else {
			b.Others = append(b.Others, name)
		}
	}
	return b
}

// Synthesize builds up to two recommendation sentences that only name entities from matches.
// FilterOnly searches never carry recommendations.
func Synthesize(matches []match.Match, query string, m mode.Mode) []string {
	if m == mode.FilterOnly {
		return nil
	}

	b := Bucket(matches)
	phrase := ContextPhrase(query)

	primary, reason := b.Others, otherReason
	if len(b.Investors) > 0 {
		primary, reason = b.Investors, investorReason
	}
	if len(primary) == 0 {
		return nil
	}

	sentences := make([]string, 0, 2)
	sentences = append(sentences, primarySentence(primary, reason, phrase))

	if len(b.Investors) > 0 && len(b.Others) > 0 {
		sentences = append(sentences, secondarySentence(b.Others, phrase))
	}
	return sentences
}

func primarySentence(names []string, reason, phrase string) string {
	headEnd := min(headSize, len(names))
	restEnd := min(headEnd+restSize, len(names))

	head := strings.Join(names[:headEnd], " and ")
	rest := ""
	if restEnd > headEnd {
		rest = ", as well as " + strings.Join(names[headEnd:restEnd], ", ")
	}
	return "Consider reaching out to " + head + rest + " " + reason + phrase + "."
}

func secondarySentence(others []string, phrase string) string {
	names := others[:min(secondarySize, len(others))]
	return "Also, keep an eye on " + joinSerial(names) +
		", as their activities could shape the landscape" + phrase + "."
}

// joinSerial joins up to three names as "A", "A and B" or "A, B, and C".
func joinSerial(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

// ContextPhrase derives " in the <Phrase> field" from the text after the first " in " of query.
// It returns "" when there is no such text.
func ContextPhrase(query string) string {
	lower := strings.ToLower(query)
	_, after, found := strings.Cut(lower, " in ")
	if !found {
		return ""
	}
	if i := strings.IndexAny(after, ".,;"); i >= 0 {
		after = after[:i]
	}

	tokens := strings.Fields(after)
	if len(tokens) == 0 {
		return ""
	}

	// cases.Caser is not safe for concurrent use.
	upper := cases.Upper(language.Und)
	for i, tok := range tokens {
		if utf8.RuneCountInString(tok) > 2 {
			// Only the leading rune is raised, so "e-commerce" stays one word.
			_, size := utf8.DecodeRuneInString(tok)
			tokens[i] = upper.String(tok[:size]) + tok[size:]
		} else {
			tokens[i] = upper.String(tok)
		}
	}
	return " in the " + strings.Join(tokens, " ") + " field"
}
