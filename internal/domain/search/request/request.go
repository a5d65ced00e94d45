package request

import (
	"fmt"
	"strings"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/mode"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/query"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length in bytes.
	MaxQueryLength = 4096
	DefaultTopK    = 10
	MaxTopK        = 50
)

// Request is a validated upstream search request.
type Request struct {
	query      string
	searchMode mode.Mode
	topK       int
	filterType match.Type
	role       string
}

// New validates search parameters against the normalized query.
// Defaults: mode=ranked, topK=10. TopK is clamped to MaxTopK.
// An investor facet applies unless the caller filters on a non-person type.
func New(q query.Normalized, m mode.Mode, topK int, filterType match.Type) (Request, error) {
	text := q.Text()
	if strings.TrimSpace(text) == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	if len(text) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if m == "" {
		m = mode.Ranked
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid search mode %q", domain.ErrInvalidQuery, m)
	}
	if filterType != "" && !filterType.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid filter type %q", domain.ErrInvalidQuery, filterType)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	r := Request{
		query:      text,
		searchMode: m,
		topK:       topK,
		filterType: filterType,
	}
	if f, ok := q.Facet(); ok && (filterType == "" || filterType == f.EntityType) {
		r.filterType = f.EntityType
		r.role = f.Role
	}
	return r, nil
}

// Query returns the normalized query text.
func (r *Request) Query() string { return r.query }

// Mode returns the search mode.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// TopK returns the number of matches to request.
func (r *Request) TopK() int { return r.topK }

// FilterType returns the entity type filter ("" when unfiltered).
func (r *Request) FilterType() match.Type { return r.filterType }

// Role returns the role facet ("" when none).
func (r *Request) Role() string { return r.role }
