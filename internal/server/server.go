// Package server provides the HTTP JSON API over the scoring engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/cache"
	"github.com/jonathan/match-engine/internal/config"
	"github.com/jonathan/match-engine/internal/dimensions"
	"github.com/jonathan/match-engine/internal/hybrid"
	"github.com/jonathan/match-engine/internal/logging"
	"github.com/jonathan/match-engine/internal/metrics"
	"github.com/jonathan/match-engine/internal/types"
)

// shutdownTimeout bounds how long in-flight requests get after the context is cancelled.
const shutdownTimeout = 30 * time.Second

// DimensionalStore persists dimensional scores. *db.DB implements it.
type DimensionalStore interface {
	SaveDimensionalScore(ctx context.Context, s *types.DimensionalScore) (uuid.UUID, error)
	Ping(ctx context.Context) error
}

// Deps are the engine components the server exposes. Only Aggregator and Matcher are required.
type Deps struct {
	Aggregator *hybrid.Aggregator
	Matcher    *dimensions.Matcher
	Cache      *cache.Cache
	Store      DimensionalStore
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Logger     *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	aggregator *hybrid.Aggregator
	matcher    *dimensions.Matcher
	cache      *cache.Cache
	store      DimensionalStore
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	logger     *zap.Logger
	validate   *validator.Validate
}

// New creates a new server instance
func New(cfg config.ServerConfig, deps Deps) (*Server, error) {
	if deps.Aggregator == nil || deps.Matcher == nil {
		return nil, fmt.Errorf("aggregator and matcher are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		aggregator: deps.Aggregator,
		matcher:    deps.Matcher,
		cache:      deps.Cache,
		store:      deps.Store,
		metrics:    deps.Metrics,
		gatherer:   gatherer,
		logger:     logging.Component(logger, "server"),
		validate:   validator.New(),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.jsonRecoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(s.withLogging)
	r.Use(s.metrics.Middleware())

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/score", s.handleScore)
		r.Post("/score/batch", s.handleScoreBatch)
		r.Post("/dimensions", s.handleDimensions)
		r.Get("/cache/stats", s.handleCacheStats)
		r.Delete("/cache", s.handleCacheClear)
	})
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// jsonRecoverer returns a JSON 500 instead of a plain text stacktrace.
func (s *Server) jsonRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				s.logger.Error("panic recovered", zap.Any("panic", rvr), zap.Stack("stacktrace"))
				s.errorResponse(w, http.StatusInternalServerError, "internal_error", "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withLogging emits one log line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := chiMiddleware.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set("X-Request-ID", requestID)
		}

		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("http_request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.Int("response_bytes", ww.BytesWritten()),
		)
	})
}
