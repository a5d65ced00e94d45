package narrative

import (
	"strings"
	"unicode/utf8"
)

// MinSummaryLength is the rune count a line must exceed to qualify as the summary.
const MinSummaryLength = 20

// Parsed is the sectioned form of a narrative.
type Parsed struct {
	Summary   string
	Insights  []string
	Companies []string
	// Recommendations holds raw recommend/suggest lines. Grounded sentences from
	// the recommend package supersede it whenever matches are available.
	Recommendations []string
}

// IsEmpty reports whether nothing displayable was extracted
// (the caller then shows the raw narrative).
func (p *Parsed) IsEmpty() bool {
	return p.Summary == "" && len(p.Insights) == 0 && len(p.Companies) == 0
}

// Section names a line classification.
type Section string

// Sections in rule order.
const (
	SectionCompany        Section = "company"
	SectionRecommendation Section = "recommendation"
	SectionInsight        Section = "insight"
	SectionSummary        Section = "summary"
	SectionDiscard        Section = "discard"
)

// rule classifies a trimmed line. lower is the lower-cased line.
type rule struct {
	section Section
	matches func(p *Parsed, line, lower string) bool
	apply   func(p *Parsed, line string)
}

var bulletMarkers = []string{"-", "•"}

// rules are evaluated top to bottom; the first match takes the line.
var rules = []rule{
	{
		section: SectionCompany,
		matches: func(_ *Parsed, line, _ string) bool { return bulletMarker(line) != "" },
		apply: func(p *Parsed, line string) {
			p.Companies = append(p.Companies, strings.TrimSpace(strings.TrimPrefix(line, bulletMarker(line))))
		},
	},
	{
		section: SectionRecommendation,
		matches: func(_ *Parsed, _, lower string) bool { return containsAny(lower, "recommend", "suggest") },
		apply:   func(p *Parsed, line string) { p.Recommendations = append(p.Recommendations, line) },
	},
	{
		section: SectionInsight,
		matches: func(_ *Parsed, _, lower string) bool { return containsAny(lower, "insight", "trend") },
		apply:   func(p *Parsed, line string) { p.Insights = append(p.Insights, line) },
	},
	{
		section: SectionSummary,
		matches: func(p *Parsed, line, _ string) bool {
			return p.Summary == "" && utf8.RuneCountInString(line) > MinSummaryLength
		},
		apply: func(p *Parsed, line string) { p.Summary = line },
	},
}

// Parse splits a narrative into summary, insights, companies and raw recommendations.
// It never fails; empty input yields an empty Parsed.
func Parse(text string) Parsed {
	var p Parsed
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		classify(&p, line)
	}
	return p
}

// Classify returns the section a trimmed line would land in given the parse state so far.
func Classify(state Parsed, line string) Section {
	if r := firstRule(&state, line); r != nil {
		return r.section
	}
	return SectionDiscard
}

func classify(p *Parsed, line string) {
	if r := firstRule(p, line); r != nil {
		r.apply(p, line)
	}
}

func firstRule(p *Parsed, line string) *rule {
	lower := strings.ToLower(line)
	for i := range rules {
		if rules[i].matches(p, line, lower) {
			return &rules[i]
		}
	}
	return nil
}

func bulletMarker(line string) string {
	for _, m := range bulletMarkers {
		if strings.HasPrefix(line, m) {
			return m
		}
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
