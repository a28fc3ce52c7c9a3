// Package server exposes a shortcut store as a keyboard-actions provider
// over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/studiowebux/keyactions/internal/keybinds"
	"github.com/studiowebux/keyactions/internal/provider"
	"github.com/studiowebux/keyactions/internal/version"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Backend provides the action definitions and accepts shortcut changes
type Backend interface {
	keybinds.Source
	SetShortcuts(ctx context.Context, name string, shortcuts []string) error
	ResetShortcuts(ctx context.Context, name string) error
}

// Config holds the listen address and the version advertised to clients
type Config struct {
	Host    string
	Port    int
	Version string
}

// MetricsPath serves the Prometheus metrics of the server
const MetricsPath = "/metrics"

// Server serves keyboard action definitions
type Server struct {
	config  Config
	backend Backend
	logger  *zap.Logger
	metrics *metrics
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a server for backend
func New(config Config, backend Backend, logger *zap.Logger) *Server {
	if config.Port == 0 {
		config.Port = 8787
	}
	if config.Host == "" {
		config.Host = "localhost"
	}
	if logger == nil {
		logger = zap.L()
	}

	return &Server{
		config:  config,
		backend: backend,
		logger:  logger,
		metrics: newMetrics(),
	}
}

// Address returns the base URL clients should use
func (s *Server) Address() string {
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}

// Handler returns the HTTP handler with all routes registered
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET "+provider.ActionsPath, s.metrics.instrument("list", s.handleList))
	mux.Handle("PUT "+provider.ActionsPath+"/{name}", s.metrics.instrument("set", s.handleSet))
	mux.Handle("DELETE "+provider.ActionsPath+"/{name}", s.metrics.instrument("reset", s.handleReset))
	mux.Handle("GET "+MetricsPath, s.metrics.handler())
	return s.logRequests(mux)
}

// Run listens and serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()

	s.logger.Info("keyboard actions server listening", zap.String("address", s.Address()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	defs, err := s.backend.FetchActions(r.Context())
	if err != nil {
		s.logger.Error("failed to fetch keyboard actions", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load keyboard actions"})
		return
	}

	writeJSON(w, http.StatusOK, defs)
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req provider.ShortcutsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	if err := s.backend.SetShortcuts(r.Context(), name, req.Shortcuts); err != nil {
		s.writeBackendError(w, err)
		return
	}
	s.metrics.changes.WithLabelValues("set").Inc()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.ResetShortcuts(r.Context(), r.PathValue("name")); err != nil {
		s.writeBackendError(w, err)
		return
	}
	s.metrics.changes.WithLabelValues("reset").Inc()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeBackendError(w http.ResponseWriter, err error) {
	if errors.Is(err, keybinds.ErrUnknownAction) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		if s.config.Version != "" {
			w.Header().Set(version.Header, s.config.Version)
		}

		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
