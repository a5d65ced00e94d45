package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/db/redis"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/query"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/response"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/repository/respcache"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/transport/upstream"
	healthuc "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/usecase/health"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/usecase/present"
	searchuc "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultTimeout          = 30 * time.Second
	defaultCacheTTL         = 5 * time.Minute
	defaultCachePrefix      = "insight:"
)

// Internal interfaces for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, raw string, opts searchuc.Options) (present.View, error)
	Present(ctx context.Context, resp response.Response, filterOnly bool) present.View
}

type closer interface {
	Close()
}

// Client is the embedded insight pipeline entry point.
type Client struct {
	cache     closer
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. When a Redis cache is configured, the provided context
// bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		timeout:     defaultTimeout,
		cacheTTL:    defaultCacheTTL,
		cachePrefix: defaultCachePrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if strings.TrimSpace(cfg.baseURL) == "" {
		return nil, errors.New("insight: ranking service URL required (use WithUpstream)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	client, err := upstream.New(&upstream.Config{
		BaseURL:    cfg.baseURL,
		APIKey:     cfg.apiKey,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
		Logger:     zap.NewNop(),
	})
	if err != nil {
		return nil, fmt.Errorf("insight: %w", err)
	}

	c := &Client{obs: obs}
	components := []healthuc.Component{{Name: "upstream", Pinger: client, Required: true}}

	var searcher searchuc.Upstream = client
	if len(cfg.cacheAddrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.cacheAddrs,
			Password:  cfg.cachePassword,
			KeyPrefix: cfg.cachePrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("insight: create redis cache: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("insight: cache not ready: %w", err)
		}
		c.cache = store
		searcher = respcache.New(client, store, cfg.cacheTTL, cfg.timeout, obs.cacheCounter(), zap.NewNop())
		components = append(components, healthuc.Component{Name: "cache", Pinger: store})
	}

	// Pass nil interface (not typed nil) when no narrator is configured.
	var narrator searchuc.Narrator
	if cfg.narrator != nil {
		narrator = cfg.narrator
	}

	c.searchSvc = searchuc.New(searcher, narrator)
	c.healthSvc = healthuc.New(components...)
	return c, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Normalize returns the canonical form of q. It never calls the ranking service.
func (c *Client) Normalize(q string) Normalized {
	n := query.Normalize(q)
	hints := n.Hints()
	out := Normalized{Text: n.Text(), Hints: make([]string, 0, len(hints))}
	for _, h := range hints {
		out.Hints = append(out.Hints, string(h))
	}
	return out
}

// Search runs q through the full pipeline.
func (c *Client) Search(ctx context.Context, q string, opts ...SearchOption) (view View, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err, "matches", len(view.Matches)) }()

	var p searchParams
	for _, o := range opts {
		o(&p)
	}

	view, err = c.searchSvc.Search(ctx, q, searchuc.Options{
		TopK:       p.topK,
		FilterType: match.ParseFilter(p.filterType),
		FilterOnly: p.filterOnly,
	})
	if err != nil {
		return View{}, fmt.Errorf("search: %w", err)
	}
	return view, nil
}

// Present renders a ranking service response without calling the service.
func (c *Client) Present(ctx context.Context, resp *RankingResponse, filterOnly bool) View {
	start := time.Now()
	defer c.obs.observe("present", start, nil)

	return c.searchSvc.Present(ctx, resp.ToDomain(), filterOnly)
}

// PresentJSON decodes a raw ranking service response and renders it.
func (c *Client) PresentJSON(ctx context.Context, data []byte, filterOnly bool) (View, error) {
	var resp RankingResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.obs.observe("present", time.Now(), err)
		return View{}, fmt.Errorf("decode ranking response: %w", err)
	}
	return c.Present(ctx, &resp, filterOnly), nil
}
