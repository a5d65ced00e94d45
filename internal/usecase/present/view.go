package present

import (
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/emphasis"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/mode"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/query"
)

// Text is a displayed string split into emphasis spans.
type Text []emphasis.Span

// View is the JSON presentation of one search: every displayed string is tokenized.
type View struct {
	Query           string       `json:"query"`
	NormalizedQuery string       `json:"normalized_query"`
	Hints           []query.Hint `json:"hints,omitempty"`
	Mode            mode.Mode    `json:"mode"`

	Summary   Text   `json:"summary,omitempty"`
	Insights  []Text `json:"insights,omitempty"`
	Companies []Text `json:"companies,omitempty"`
	// Recommendations are grounded sentences naming only entities from Matches.
	Recommendations []Text `json:"recommendations,omitempty"`
	// LegacyRecommendations are the narrative's own recommend/suggest lines.
	// Set only when there are no matches to ground sentences on.
	LegacyRecommendations []Text `json:"legacy_recommendations,omitempty"`
	// Fallback is the whole narrative, set when parsing extracted nothing displayable.
	Fallback Text `json:"fallback,omitempty"`

	Matches []MatchView `json:"matches"`
	Total   int         `json:"total_results"`
	// Graph covers the leading matches and the connections between them.
	Graph GraphView `json:"graph"`
}

// MatchView is the display form of a match.
type MatchView struct {
	ID          string          `json:"id"`
	Type        match.Type      `json:"type"`
	Score       float64         `json:"score"`
	Name        Text            `json:"name"`
	Investor    bool            `json:"investor,omitempty"`
	Company     string          `json:"company,omitempty"`
	Role        string          `json:"role,omitempty"`
	Location    string          `json:"location,omitempty"`
	Batch       string          `json:"batch,omitempty"`
	Industries  []string        `json:"industries,omitempty"`
	Description Text            `json:"description,omitempty"`
	Website     string          `json:"website,omitempty"`
	URL         string          `json:"url,omitempty"`
	Language    string          `json:"language,omitempty"`
	Stars       int             `json:"stars,omitempty"`
	Connection  *ConnectionView `json:"connection,omitempty"`
}

// ConnectionView shows how a graph-expanded match relates to a direct hit.
type ConnectionView struct {
	FromID   string   `json:"from_id"`
	Distance int      `json:"distance"`
	Path     []string `json:"path,omitempty"`
}
