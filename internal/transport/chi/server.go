package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/query"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/request"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/response"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/logger"
	healthuc "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/usecase/health"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/usecase/present"
	searchuc "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/usecase/search"
)

const maxBodyBytes = 1 << 20

// Searcher runs and presents searches.
type Searcher interface {
	Search(ctx context.Context, raw string, opts searchuc.Options) (present.View, error)
	Present(ctx context.Context, resp response.Response, filterOnly bool) present.View
}

// HealthChecker aggregates dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers of the insight API.
type Server struct {
	search        Searcher
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrUpstreamRejected, http.StatusUnprocessableEntity, ErrorCodeUpstreamRejected),
		sentinelHandler(domain.ErrUpstreamUnavailable, http.StatusBadGateway, ErrorCodeUpstreamUnavailable),
	}
	return s
}

// Normalize handles POST /v1/normalize.
func (s *Server) Normalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	n := query.Normalize(req.Query)
	if _, err := request.New(n, "", 0, ""); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := normalizeResponse{
		Query:      req.Query,
		Normalized: n.Text(),
		Hints:      n.Hints(),
	}
	if f, ok := n.Facet(); ok {
		resp.Facet = &facetResponse{EntityType: f.EntityType, Role: f.Role}
	}
	writeJSON(w, http.StatusOK, resp)
}

// SearchGet handles GET /v1/search?query=&top_k=&filter_type=&filter_only=.
// Optional parameters bind through pointers, the way generated oapi-codegen servers do.
func (s *Server) SearchGet(w http.ResponseWriter, r *http.Request) {
	var (
		req        searchRequest
		filterType *string
		filterOnly *bool
	)
	params := r.URL.Query()

	for _, p := range []struct {
		name     string
		required bool
		dest     any
	}{
		{"query", true, &req.Query},
		{"top_k", false, &req.TopK},
		{"filter_type", false, &filterType},
		{"filter_only", false, &filterOnly},
	} {
		if err := runtime.BindQueryParameter("form", true, p.required, p.name, params, p.dest); err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest,
				fmt.Sprintf("Invalid format for parameter %s: %s", p.name, err))
			return
		}
	}
	if filterType != nil {
		req.FilterType = *filterType
	}
	if filterOnly != nil {
		req.FilterOnly = *filterOnly
	}

	s.runSearch(w, r, &req)
}

// SearchPost handles POST /v1/search.
func (s *Server) SearchPost(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.runSearch(w, r, &req)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, req *searchRequest) {
	view, err := s.search.Search(r.Context(), req.Query, searchuc.Options{
		TopK:       derefInt(req.TopK),
		FilterType: match.ParseFilter(req.FilterType),
		FilterOnly: req.FilterOnly,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Present handles POST /v1/present: it renders a ranking service response without calling it.
func (s *Server) Present(w http.ResponseWriter, r *http.Request) {
	var req presentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.search.Present(r.Context(), req.ToDomain(), req.FilterOnly))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrRateLimited,
		domain.ErrUpstreamRejected,
		domain.ErrUpstreamUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler reports query validation failures verbatim; they are built locally.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidQuery) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	lg := logger.FromContextOr(r.Context(), s.logger)
	lg.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	lg.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
