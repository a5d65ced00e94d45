package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/recommend"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/mode"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/query"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/request"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/response"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/logger"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/metrics"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/usecase/present"
)

// Options are the caller-controlled search parameters.
type Options struct {
	TopK       int
	FilterType match.Type
	FilterOnly bool
}

// Service runs the query pipeline: normalize, search upstream, present.
type Service struct {
	upstream Upstream
	narrator Narrator
}

// New creates a search service. narrator can be nil.
func New(upstream Upstream, narrator Narrator) *Service {
	return &Service{upstream: upstream, narrator: narrator}
}

// Search normalizes raw, queries the ranking service and builds the view.
func (s *Service) Search(ctx context.Context, raw string, opts Options) (present.View, error) {
	q := query.Normalize(raw)
	m := mode.FromFlag(opts.FilterOnly)

	req, err := request.New(q, m, opts.TopK, opts.FilterType)
	if err != nil {
		return present.View{}, err
	}

	resp, err := s.upstream.Search(ctx, &req)
	if err != nil {
		return present.View{}, fmt.Errorf("search upstream: %w", err)
	}
	if resp.Query == "" {
		resp.Query = raw
	}

	s.fillNarrative(ctx, &resp, m)
	return s.build(ctx, resp, q, m), nil
}

// Present builds a view from a response the caller already holds; nothing is fetched.
func (s *Service) Present(ctx context.Context, resp response.Response, filterOnly bool) present.View {
	return s.build(ctx, resp, query.Normalize(resp.Query), mode.FromFlag(filterOnly))
}

// fillNarrative asks the narrator for a narrative when ranked matches came back without one.
// Narrator failures are logged; the view then relies on grounded recommendations alone.
func (s *Service) fillNarrative(ctx context.Context, resp *response.Response, m mode.Mode) {
	if s.narrator == nil || m != mode.Ranked || !resp.HasMatches() || strings.TrimSpace(resp.Narrative) != "" {
		return
	}

	text, err := s.narrator.Narrate(ctx, resp.Query, resp.Matches)
	if err != nil {
		logger.FromContext(ctx).Warn("Narrative generation failed",
			zap.Int("matches", len(resp.Matches)),
			zap.Error(err),
		)
		return
	}
	resp.Narrative = text
}

func (s *Service) build(ctx context.Context, resp response.Response, q query.Normalized, m mode.Mode) present.View {
	v := present.Build(resp, q, m)

	if v.IsFallback() {
		metrics.NarrativeFallbackTotal.Inc()
	}
	if n := len(v.Recommendations); n > 0 {
		primary := "others"
		if len(recommend.Bucket(resp.Matches).Investors) > 0 {
			primary = "investors"
		}
		metrics.RecommendationsTotal.WithLabelValues(primary).Inc()
		if n > 1 {
			metrics.RecommendationsTotal.WithLabelValues("others").Inc()
		}
	}

	logger.FromContext(ctx).Debug("Search view built",
		zap.String("normalized_query", v.NormalizedQuery),
		zap.String("mode", string(v.Mode)),
		zap.Int("matches", len(v.Matches)),
		zap.Int("total_results", v.Total),
		zap.Int("recommendations", len(v.Recommendations)),
		zap.Bool("fallback", v.IsFallback()),
	)
	return v
}
