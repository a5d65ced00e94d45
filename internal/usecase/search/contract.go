package search

import (
	"context"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/request"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/response"
)

// Upstream runs a search against the remote ranking service.
type Upstream interface {
	Search(ctx context.Context, req *request.Request) (response.Response, error)
}

// Narrator writes a narrative for matches when the ranking service returned none.
type Narrator interface {
	Narrate(ctx context.Context, query string, matches []match.Match) (string, error)
}
