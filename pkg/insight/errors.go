package insight

import "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery        = domain.ErrInvalidQuery
	ErrUpstreamUnavailable = domain.ErrUpstreamUnavailable
	ErrUpstreamRejected    = domain.ErrUpstreamRejected
	ErrRateLimited         = domain.ErrRateLimited
	ErrNarratorError       = domain.ErrNarratorError
)
