package present

import (
	"strings"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/emphasis"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/narrative"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/recommend"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/mode"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/query"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/response"
)

// Build turns an upstream response into a View. It is pure and never fails.
func Build(resp response.Response, q query.Normalized, m mode.Mode) View {
	if m == "" {
		m = mode.Ranked
	}

	v := View{
		Query:           resp.Query,
		NormalizedQuery: q.Text(),
		Hints:           q.Hints(),
		Mode:            m,
		Matches:         make([]MatchView, 0, len(resp.Matches)),
		Total:           resp.Total,
	}
	if v.Query == "" {
		v.Query = q.Text()
	}

	parsed := narrative.Parse(resp.Narrative)
	v.Summary = text(parsed.Summary)
	v.Insights = texts(parsed.Insights)
	v.Companies = texts(parsed.Companies)
	if parsed.IsEmpty() {
		v.Fallback = text(resp.Narrative)
	}

	v.Recommendations = texts(recommend.Synthesize(resp.Matches, v.Query, m))
	if !resp.HasMatches() {
		v.LegacyRecommendations = texts(parsed.Recommendations)
	}

	for i := range resp.Matches {
		v.Matches = append(v.Matches, matchView(&resp.Matches[i]))
	}
	v.Graph = buildGraph(resp.Matches)
	return v
}

// IsFallback reports whether the view shows the raw narrative instead of sections.
func (v *View) IsFallback() bool { return len(v.Fallback) > 0 }

func matchView(m *match.Match) MatchView {
	md := m.Metadata()
	mv := MatchView{
		ID:          m.ID(),
		Type:        m.Type(),
		Score:       m.Score(),
		Name:        text(m.DisplayName()),
		Investor:    m.IsInvestor(),
		Company:     md.Company,
		Role:        md.Role,
		Location:    md.Location,
		Batch:       md.Batch,
		Industries:  md.Industries,
		Description: text(md.Description),
		Website:     md.Website,
		URL:         md.URL,
		Language:    md.Language,
		Stars:       md.Stars,
	}
	if c := m.Connection(); c != nil {
		mv.Connection = &ConnectionView{FromID: c.FromID, Distance: c.Distance, Path: c.Path}
	}
	return mv
}

// text tokenizes s; blank strings are not displayed.
func text(s string) Text {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return emphasis.Tokenize(s)
}

func texts(lines []string) []Text {
	if len(lines) == 0 {
		return nil
	}
	out := make([]Text, 0, len(lines))
	for _, l := range lines {
		if t := text(l); t != nil {
			out = append(out, t)
		}
	}
	return out
}
