package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
	"github.com/couchcryptid/ice-climatology-map/internal/pipeline"
)

// MapService resolves selections to rendered artifacts.
type MapService interface {
	EnsureMap(ctx context.Context, sel domain.Selection) (pipeline.Result, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the map endpoints and the selection page alongside health,
// readiness, and metrics.
type Server struct {
	httpServer *http.Server
	maps       MapService
	logger     *slog.Logger
}

// NewServer creates an HTTP server. Map endpoints are limited to
// rateLimitPerMinute requests per client IP.
func NewServer(addr string, maps MapService, rateLimitPerMinute int, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       10 * time.Second,
			// Rendering an uncached map can take a while.
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		maps:   maps,
		logger: logger,
	}

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(maps))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.handleIndex)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/calendar", s.handleCalendar)
		r.Get("/variables", s.handleVariables)
		r.With(rateLimit(rateLimitPerMinute)).Get("/maps", s.handleEnsureMap)
	})
	r.With(rateLimit(rateLimitPerMinute)).Get("/maps/{mode}/{variable}/{date}", s.handleServeMap)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func rateLimit(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
		}),
	)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
