package respcache

import (
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/response"
)

// cachedResponse is the JSON form of a response.Response stored in the cache.
type cachedResponse struct {
	Query     string        `json:"query"`
	Narrative string        `json:"narrative"`
	Total     int           `json:"total"`
	Matches   []cachedMatch `json:"matches"`
}

type cachedMatch struct {
	ID         string            `json:"id"`
	Type       match.Type        `json:"type"`
	Score      float64           `json:"score"`
	Metadata   match.Metadata    `json:"metadata"`
	Connection *match.Connection `json:"connection,omitempty"`
}

func toDTO(r *response.Response) cachedResponse {
	dto := cachedResponse{
		Query:     r.Query,
		Narrative: r.Narrative,
		Total:     r.Total,
		Matches:   make([]cachedMatch, 0, len(r.Matches)),
	}
	for i := range r.Matches {
		m := &r.Matches[i]
		dto.Matches = append(dto.Matches, cachedMatch{
			ID:         m.ID(),
			Type:       m.Type(),
			Score:      m.Score(),
			Metadata:   m.Metadata(),
			Connection: m.Connection(),
		})
	}
	return dto
}

func (d *cachedResponse) toDomain() response.Response {
	matches := make([]match.Match, 0, len(d.Matches))
	for _, m := range d.Matches {
		matches = append(matches, match.New(m.ID, m.Type, m.Score, m.Metadata, m.Connection))
	}
	return response.Response{
		Query:     d.Query,
		Narrative: d.Narrative,
		Matches:   matches,
		Total:     d.Total,
	}
}
