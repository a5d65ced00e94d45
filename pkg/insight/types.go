package insight

import (
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/emphasis"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/transport/upstream"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/usecase/present"
)

// View is the structured presentation of one search.
type View = present.View

// MatchView is the display form of one match in a View.
type MatchView = present.MatchView

// Text is a displayed string split into emphasis spans.
type Text = present.Text

// Span is one run of plain, bold or italic text.
type Span = emphasis.Span

// Match is a typed ranking service hit, as handed to a Narrator.
type Match = match.Match

// RankingResponse is the ranking service JSON envelope, for Present.
type RankingResponse = upstream.SearchResponse

// Normalized is a query in canonical form with its intent hints.
type Normalized struct {
	Text  string
	Hints []string
}

// HealthStatus represents the aggregated dependency health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// PlainText returns t with emphasis markers removed.
func PlainText(t Text) string { return emphasis.PlainText(t) }

// Markdown returns t with its original emphasis markers.
func Markdown(t Text) string { return emphasis.Render(t) }
