package response

import "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"

// Response is what the ranking service returned for one search.
// Matches keep the upstream order; nothing here re-ranks them.
type Response struct {
	Query     string
	Narrative string
	Matches   []match.Match
	// Total is the upstream total_results, which may exceed len(Matches).
	Total int
}

// HasMatches reports whether at least one match came back.
func (r *Response) HasMatches() bool { return len(r.Matches) > 0 }
