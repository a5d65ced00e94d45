package chi

import (
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/query"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/transport/upstream"
)

// ErrorCode is the machine-readable error kind in an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodeRateLimited         ErrorCode = "rate_limited"
	ErrorCodeUpstreamRejected    ErrorCode = "upstream_rejected"
	ErrorCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type normalizeRequest struct {
	Query string `json:"query"`
}

type facetResponse struct {
	EntityType match.Type `json:"entity_type"`
	Role       string     `json:"role,omitempty"`
}

type normalizeResponse struct {
	Query      string         `json:"query"`
	Normalized string         `json:"normalized"`
	Hints      []query.Hint   `json:"hints"`
	Facet      *facetResponse `json:"facet,omitempty"`
}

type searchRequest struct {
	Query      string `json:"query"`
	TopK       *int   `json:"top_k"`
	FilterType string `json:"filter_type"`
	FilterOnly bool   `json:"filter_only"`
}

// presentRequest is a ranking service response the caller already holds.
type presentRequest struct {
	upstream.SearchResponse
	FilterOnly bool `json:"filter_only"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
