package insight

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration
	cachePrefix   string

	narrator Narrator

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithUpstream sets the ranking service base URL and API key. Required.
func WithUpstream(baseURL, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = baseURL
		c.apiKey = apiKey
	})
}

// WithTimeout bounds each ranking service request. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPClient replaces the HTTP client used for the ranking service.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithRedisCache caches ranking service responses in Redis for ttl.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithCachePrefix namespaces cache keys. Default: "insight:".
func WithCachePrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cachePrefix = prefix
	})
}

// WithNarrator sets the fallback narrator used when the ranking service
// returns matches without a narrative.
func WithNarrator(n Narrator) Option {
	return optionFunc(func(c *clientConfig) {
		c.narrator = n
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts, durations and
// cache hits) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// SearchOption tunes a single search.
type SearchOption func(*searchParams)

type searchParams struct {
	topK       int
	filterType string
	filterOnly bool
}

// TopK sets how many matches to request (default 10, at most 50).
func TopK(n int) SearchOption {
	return func(p *searchParams) { p.topK = n }
}

// OfType restricts matches to one entity type: "company", "person" or "repository".
func OfType(t string) SearchOption {
	return func(p *searchParams) { p.filterType = t }
}

// FilterOnly asks for plain filtering: no narrative and no recommendations.
func FilterOnly() SearchOption {
	return func(p *searchParams) { p.filterOnly = true }
}
