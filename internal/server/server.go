// Package server exposes the recommendation engine over HTTP for the job
// board backend.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Candra0x6/stara-match/internal/ai"
	"github.com/Candra0x6/stara-match/internal/cache"
	"github.com/Candra0x6/stara-match/internal/jobboard"
	"github.com/Candra0x6/stara-match/internal/recommend"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStore is the persistence surface the server needs. It is satisfied by
// *store.Store; handlers degrade when it is nil.
type JobStore interface {
	GetProfile(ctx context.Context, id string) (*jobboard.UserProfile, error)
	ListOpenJobs(ctx context.Context, limit int) (*jobboard.Jobs, error)
	ListAppliedJobIDs(ctx context.Context, profileID string) ([]string, error)
	SaveRun(ctx context.Context, profileID string, output *recommend.Output) (uuid.UUID, error)
}

// ResultCache is the caching surface the server needs. It is satisfied by
// *cache.Cache; caching is skipped when it is nil.
type ResultCache interface {
	Get(ctx context.Context, profileID string) (*cache.Entry, error)
	Put(ctx context.Context, profileID string, output *recommend.Output) error
}

// Config holds server configuration.
type Config struct {
	Port        int
	Recommender ai.Recommender
	Store       JobStore
	Cache       ResultCache
	Logger      *zap.Logger
}

// Server is the HTTP front end over the recommendation engine.
type Server struct {
	httpServer  *http.Server
	recommender ai.Recommender
	store       JobStore
	cache       ResultCache
	logger      *zap.Logger
}

// New creates a server instance. The recommender is required; store and
// cache are optional and the matching features are disabled when absent.
func New(cfg Config) (*Server, error) {
	if cfg.Recommender == nil {
		return nil, fmt.Errorf("recommender is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		recommender: cfg.Recommender,
		store:       cfg.Store,
		cache:       cfg.Cache,
		logger:      logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/recommendations", s.handleRecommendations)
	mux.HandleFunc("POST /v1/questions", s.handleQuestions)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the configured request handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening and blocks until an interrupt, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}

	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers for the job board frontend.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request with its duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
