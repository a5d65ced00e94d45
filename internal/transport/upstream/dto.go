package upstream

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/mode"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/request"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/response"
)

type searchRequest struct {
	Query      string `json:"query"`
	TopK       int    `json:"top_k"`
	FilterType string `json:"filter_type,omitempty"`
	FilterRole string `json:"filter_role,omitempty"`
	FilterOnly bool   `json:"filter_only,omitempty"`
}

func toWire(req *request.Request) searchRequest {
	return searchRequest{
		Query:      req.Query(),
		TopK:       req.TopK(),
		FilterType: string(req.FilterType()),
		FilterRole: req.Role(),
		FilterOnly: req.Mode() == mode.FilterOnly,
	}
}

// SearchResponse is the ranking service response envelope.
type SearchResponse struct {
	Query        string      `json:"query"`
	Response     string      `json:"response"`
	Matches      []wireMatch `json:"matches"`
	TotalResults *int        `json:"total_results"`
}

type wireMatch struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Score      json.Number     `json:"score"`
	Role       string          `json:"role"`
	Data       map[string]any  `json:"data"`
	Metadata   map[string]any  `json:"metadata"`
	Connection *wireConnection `json:"connection"`
}

type wireConnection struct {
	FromID   string   `json:"from_id"`
	Distance int      `json:"distance"`
	Path     []string `json:"path"`
}

// ToDomain decodes the envelope into typed matches; Total falls back to the match count.
func (r *SearchResponse) ToDomain() response.Response {
	matches := make([]match.Match, 0, len(r.Matches))
	for i := range r.Matches {
		matches = append(matches, r.Matches[i].toDomain())
	}
	total := len(matches)
	if r.TotalResults != nil {
		total = *r.TotalResults
	}
	return response.Response{
		Query:     r.Query,
		Narrative: r.Response,
		Matches:   matches,
		Total:     total,
	}
}

func (w *wireMatch) toDomain() match.Match {
	bag := attrs{w.Data, w.Metadata}
	md := match.Metadata{
		Name:        bag.str("name"),
		Company:     bag.str("company", "company_name"),
		Role:        strings.TrimSpace(w.Role),
		Location:    bag.str("location"),
		Batch:       bag.str("batch"),
		Industries:  bag.strs("industries", "industry", "tags"),
		Description: bag.str("description", "one_liner"),
		Website:     bag.str("website"),
		URL:         bag.str("url", "yc_url"),
		Language:    bag.str("language"),
		Stars:       bag.integer("stars"),
	}

	if md.Role == "" {
		md.Role = bag.str("role", "title")
	}

	score, _ := w.Score.Float64()
	if math.IsNaN(score) {
		score = 0
	}

	id := w.ID
	if id == "" {
		id = bag.str("id")
	}

	var conn *match.Connection
	if w.Connection != nil {
		conn = &match.Connection{
			FromID:   w.Connection.FromID,
			Distance: w.Connection.Distance,
			Path:     w.Connection.Path,
		}
	}
	return match.New(id, match.ParseType(w.Type), score, md, conn)
}

// attrs looks keys up across the data and metadata bags, first bag first.
type attrs []map[string]any

func (a attrs) lookup(keys ...string) (any, bool) {
	for _, bag := range a {
		for _, k := range keys {
			if v, ok := bag[k]; ok && v != nil {
				return v, true
			}
		}
	}
	return nil, false
}

func (a attrs) str(keys ...string) string {
	v, ok := a.lookup(keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// strs accepts a JSON list or a comma-separated string.
func (a attrs) strs(keys ...string) []string {
	v, ok := a.lookup(keys...)
	if !ok {
		return nil
	}
	var raw []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = strings.Split(t, ",")
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (a attrs) integer(keys ...string) int {
	v, ok := a.lookup(keys...)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	default:
		return 0
	}
}
