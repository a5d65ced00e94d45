package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/metrics"
)

// NewRouter wires the middleware chain and routes. Rate limiting covers /v1 only.
func NewRouter(s *Server, limiter *rate.Limiter, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Route("/v1", func(r chi.Router) {
		r.Use(rateLimit(limiter))
		r.Post("/normalize", s.Normalize)
		r.Get("/search", s.SearchGet)
		r.Post("/search", s.SearchPost)
		r.Post("/present", s.Present)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	return r
}
