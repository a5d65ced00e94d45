package query

import (
	"regexp"
	"sort"
	"strings"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
)

// Hint is a coarse intent signal extracted from the query text.
type Hint string

// HintInvestor asks the caller to restrict results to people with an investor role.
const HintInvestor Hint = "investor"

// InvestorRole is the role facet value sent upstream for HintInvestor.
const InvestorRole = "investor"

var (
	// batchPattern matches YC cohort shorthand such as "W24", "s'23" and "YC W2024".
	batchPattern = regexp.MustCompile(`(?i)\b(yc\s*)?([ws])['’]?(?:20)?(\d{2})\b`)
	// investorPattern matches whole-word investor intent tokens.
	investorPattern = regexp.MustCompile(`\b(?:investors?|vc|venture)\b`)
)

// Facet is an extra constraint the caller adds to the outgoing search request.
type Facet struct {
	EntityType match.Type
	Role       string
}

// Normalized is a query rewritten to canonical form plus its intent hints (immutable).
type Normalized struct {
	text  string
	hints map[Hint]struct{}
}

// Normalize rewrites the first batch shorthand in raw and detects intent hints.
func Normalize(raw string) Normalized {
	n := Normalized{text: rewriteBatch(raw)}
	if investorPattern.MatchString(strings.ToLower(raw)) {
		n.hints = map[Hint]struct{}{HintInvestor: {}}
	}
	return n
}

// Text returns the canonical query text.
func (n Normalized) Text() string { return n.text }

// Has reports whether the hint was detected.
func (n Normalized) Has(h Hint) bool {
	_, ok := n.hints[h]
	return ok
}

// Hints returns the detected hints in sorted order.
func (n Normalized) Hints() []Hint {
	out := make([]Hint, 0, len(n.hints))
	for h := range n.hints {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Facet returns the request facet implied by the hints, if any.
func (n Normalized) Facet() (Facet, bool) {
	if n.Has(HintInvestor) {
		return Facet{EntityType: match.Person, Role: InvestorRole}, true
	}
	return Facet{}, false
}

// rewriteBatch replaces only the first batch token; the rest of the string is kept as is.
func rewriteBatch(raw string) string {
	loc := batchPattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw) + 12)
	b.WriteString(raw[:loc[0]])
	if loc[2] >= 0 {
		b.WriteString("YC ")
	}
	if strings.EqualFold(raw[loc[4]:loc[5]], "w") {
		b.WriteString("Winter 20")
	} else {
		b.WriteString("Summer 20")
	}
	b.WriteString(raw[loc[6]:loc[7]])
	b.WriteString(raw[loc[1]:])
	return b.String()
}
