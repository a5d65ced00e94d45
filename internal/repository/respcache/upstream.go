package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/db"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/request"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/response"
)

const cacheKeyPrefix = "resp_cache:"

// defaultCallTimeout bounds a shared upstream call when New is given no timeout.
const defaultCallTimeout = 30 * time.Second

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type upstream interface {
	Search(ctx context.Context, req *request.Request) (response.Response, error)
}

// CachedUpstream caches ranking service responses in a key-value store.
// Concurrent misses for the same request share one upstream call. The shared
// call runs detached from any single caller's cancellation.
type CachedUpstream struct {
	inner       upstream
	store       store
	ttl         time.Duration
	callTimeout time.Duration
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// callTimeout bounds each shared upstream call (zero means 30s).
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner upstream,
	s store,
	ttl time.Duration,
	callTimeout time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedUpstream {
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	return &CachedUpstream{
		inner:       inner,
		store:       s,
		ttl:         ttl,
		callTimeout: callTimeout,
		cacheTotal:  cacheTotal,
		logger:      logger,
	}
}

// Search returns a cached response or calls the ranking service.
// Cache failures are logged and never fail the search.
func (c *CachedUpstream) Search(ctx context.Context, req *request.Request) (response.Response, error) {
	key := cacheKey(req)

	if resp, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return resp, nil
	}
	c.incCache("miss")

	ch := c.group.DoChan(key, func() (any, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.callTimeout)
		defer cancel()

		resp, err := c.inner.Search(sctx, req)
		if err != nil {
			return response.Response{}, err
		}
		c.putToCache(sctx, key, &resp)
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return response.Response{}, fmt.Errorf("search: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return response.Response{}, fmt.Errorf("search: %w", res.Err)
		}
		return res.Val.(response.Response), nil
	}
}

func (c *CachedUpstream) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes every request field that changes the upstream answer.
func cacheKey(req *request.Request) string {
	h := sha256.New()
	for _, part := range []string{
		req.Query(),
		string(req.Mode()),
		strconv.Itoa(req.TopK()),
		string(req.FilterType()),
		req.Role(),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedUpstream) getFromCache(ctx context.Context, key string) (response.Response, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached response", zap.String("key", key), zap.Error(err))
		}
		return response.Response{}, false
	}
	if len(data) == 0 {
		return response.Response{}, false
	}

	var dto cachedResponse
	if err := json.Unmarshal(data, &dto); err != nil {
		c.logger.Warn("Failed to parse cached response", zap.String("key", key), zap.Error(err))
		if err := c.store.Del(ctx, key); err != nil && !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to evict corrupt cached response", zap.String("key", key), zap.Error(err))
		}
		return response.Response{}, false
	}
	return dto.toDomain(), true
}

func (c *CachedUpstream) putToCache(ctx context.Context, key string, resp *response.Response) {
	data, err := json.Marshal(toDTO(resp))
	if err != nil {
		c.logger.Warn("Failed to encode response for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}
