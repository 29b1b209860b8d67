// Package web serves balance histories, rendered charts and a live delta stream over HTTP.
package web

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/vadiminshakov/satchart/internal/chart"
	"github.com/vadiminshakov/satchart/internal/domain"
	"github.com/vadiminshakov/satchart/internal/events"
	"github.com/vadiminshakov/satchart/internal/services/history"
)

const (
	defaultHeartbeat   = 20 * time.Second
	defaultMaxSessions = 1000
)

type deltaStore interface {
	Save(delta domain.AddressDelta) (uint64, error)
	DeltasAfter(index uint64, address string) ([]domain.DeltaRecord, error)
}

// Config server settings.
type Config struct {
	Addr string
	// ChartOptions are applied to every chart session.
	ChartOptions []chart.Option
	Heartbeat    time.Duration
	MaxSessions  int
}

// Server exposes the JSON API, chart sessions and the SSE delta stream.
type Server struct {
	addr         string
	chartOptions []chart.Option
	heartbeat    time.Duration

	store       deltaStore
	history     *history.Service
	broadcaster *events.DeltaBroadcaster
	sessions    *sessions
	logger      *zap.Logger
}

// NewServer creates a new web server instance.
func NewServer(cfg Config, store deltaStore, histories *history.Service, broadcaster *events.DeltaBroadcaster, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if broadcaster == nil {
		broadcaster = events.NewDeltaBroadcaster(0)
	}
	if cfg.Heartbeat <= 0 {
		cfg.Heartbeat = defaultHeartbeat
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = defaultMaxSessions
	}

	return &Server{
		addr:         cfg.Addr,
		chartOptions: cfg.ChartOptions,
		heartbeat:    cfg.Heartbeat,
		store:        store,
		history:      histories,
		broadcaster:  broadcaster,
		sessions:     newSessions(cfg.MaxSessions),
		logger:       logger,
	}
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /{$}", s.handleIndex)
	mux.HandleFunc("POST /getbalancehistory", s.handleBalanceHistory)
	mux.HandleFunc("POST /deltas", s.handleAddDelta)
	mux.HandleFunc("POST /charts", s.handleCreateChart)
	mux.HandleFunc("GET /charts/{id}", s.handleChartSVG)
	mux.HandleFunc("POST /charts/{id}/select", s.handleSelectCurrency)
	mux.HandleFunc("DELETE /charts/{id}", s.handleDeleteChart)
	mux.HandleFunc("GET /balance/stream", s.handleBalanceStream)
	return s.logRequests(mux)
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("chart server listening", zap.String("addr", s.addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartWithAutoTLS runs an HTTPS server with automatic TLS certificates via ACME.
// It also starts an HTTP server on port 80 to handle ACME HTTP-01 challenges.
func (s *Server) StartWithAutoTLS(ctx context.Context, domains []string, cacheDir string) error {
	if len(domains) == 0 {
		return fmt.Errorf("no domains provided for automatic TLS")
	}
	if cacheDir == "" {
		cacheDir = "cert-cache"
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(cacheDir),
	}

	httpSrv := &http.Server{
		Addr:              ":80",
		Handler:           manager.HTTPHandler(nil),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	httpsSrv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSConfig:         tlsConfig,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("http (acme) server shutdown", zap.Error(err))
		}
		if err := httpsSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("https server shutdown", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http (acme) server", zap.Error(err))
		}
	}()

	s.logger.Info("chart server listening with automatic TLS",
		zap.String("addr", s.addr),
		zap.Strings("domains", domains))
	if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, []string{
		"POST /getbalancehistory",
		"POST /deltas",
		"POST /charts",
		"GET /charts/{id}",
		"POST /charts/{id}/select",
		"DELETE /charts/{id}",
		"GET /balance/stream",
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

type gzipResponseWriter struct {
	http.ResponseWriter
	writer *gzip.Writer
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.writer.Write(b)
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}
