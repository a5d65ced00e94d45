package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals an empty or oversized search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUpstreamUnavailable signals that the ranking service could not be reached or failed.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamRejected signals that the ranking service rejected the request.
	ErrUpstreamRejected = errors.New("upstream rejected request")
	// ErrRateLimited signals a rate limit hit (local or upstream).
	ErrRateLimited = errors.New("rate limited")
	// ErrNarratorError signals a narrative generation failure.
	ErrNarratorError = errors.New("narrator error")
)

// UpstreamStatusError wraps an upstream sentinel with the HTTP status the ranking service returned.
type UpstreamStatusError struct {
	StatusCode int
	Detail     string
	sentinel   error
}

func (e *UpstreamStatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: status %d", e.sentinel.Error(), e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.sentinel.Error(), e.StatusCode, e.Detail)
}

func (e *UpstreamStatusError) Unwrap() error { return e.sentinel }

// NewUpstreamStatus classifies an upstream HTTP status into the matching sentinel.
func NewUpstreamStatus(statusCode int, detail string) error {
	sentinel := ErrUpstreamUnavailable
	switch {
	case statusCode == 429:
		sentinel = ErrRateLimited
	case statusCode >= 400 && statusCode < 500:
		sentinel = ErrUpstreamRejected
	}
	return &UpstreamStatusError{StatusCode: statusCode, Detail: detail, sentinel: sentinel}
}
