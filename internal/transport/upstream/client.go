package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/request"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/response"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/metrics"
)

const (
	endpointSearch = "search"
	endpointHealth = "health"

	maxBodyBytes   = 8 << 20
	maxDetailBytes = 512
)

// Config holds the ranking service connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the remote ranking service. It forwards and decodes only.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a ranking service client.
func New(cfg *Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("base url is required")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	lg := cfg.Logger
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Client{baseURL: base, apiKey: cfg.APIKey, http: hc, logger: lg}, nil
}

// Search posts the request to {base}/search and decodes the matches.
func (c *Client) Search(ctx context.Context, req *request.Request) (response.Response, error) {
	body, err := json.Marshal(toWire(req))
	if err != nil {
		return response.Response{}, fmt.Errorf("encode search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return response.Response{}, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var wire SearchResponse
	if err := c.do(httpReq, endpointSearch, &wire); err != nil {
		return response.Response{}, err
	}

	resp := wire.ToDomain()
	c.logger.Debug("Upstream search completed",
		zap.String("query", req.Query()),
		zap.Int("matches", len(resp.Matches)),
		zap.Int("total_results", resp.Total),
	)
	return resp, nil
}

// Ping checks {base}/health.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	return c.do(httpReq, endpointHealth, nil)
}

// do sends the request, records metrics and decodes a 2xx body into out (when non-nil).
func (c *Client) do(httpReq *http.Request, endpoint string, out any) error {
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-Key", c.apiKey)
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		if ctxErr := httpReq.Context().Err(); ctxErr != nil {
			return fmt.Errorf("%s request: %w: %w", endpoint, domain.ErrUpstreamUnavailable, ctxErr)
		}
		return fmt.Errorf("%s request: %w: %s", endpoint, domain.ErrUpstreamUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxDetailBytes))
		return fmt.Errorf("%s request: %w", endpoint, domain.NewUpstreamStatus(resp.StatusCode, extractDetail(raw)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w: %s", endpoint, domain.ErrUpstreamUnavailable, err.Error())
	}
	return nil
}

// extractDetail extracts the "detail" field from a JSON error body, falling back to the raw text.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		if s, ok := parsed.Detail.(string); ok && s != "" {
			return s
		}
	}
	return strings.TrimSpace(string(body))
}
