// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/starksinclair/Multi-LLM-Agent-system/internal/history"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/pipeline"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Processor runs a question through the answer pipeline.
type Processor interface {
	Process(ctx context.Context, question string) (*pipeline.AgentResult, error)
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker func(ctx context.Context) error

// Config holds HTTP server settings.
type Config struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	MaxRecent      int
}

// Server exposes the question pipeline over HTTP.
type Server struct {
	config      Config
	processor   Processor
	store       *history.Store
	index       *history.Index
	readyChecks map[string]HealthChecker
	logger      Logger
	httpServer  *http.Server
}

// New creates the server. store and index may be nil when history is
// disabled.
func New(config Config, processor Processor, store *history.Store, index *history.Index, readyChecks map[string]HealthChecker, log Logger) *Server {
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 5 * time.Minute
	}
	if config.MaxRecent == 0 {
		config.MaxRecent = 20
	}

	s := &Server{
		config:      config,
		processor:   processor,
		store:       store,
		index:       index,
		readyChecks: readyChecks,
		logger: log.With(map[string]interface{}{
			"component": "http",
		}),
	}

	s.httpServer = &http.Server{
		Addr:         config.Address,
		Handler:      s.routes(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/mcp", s.handleQuestion)
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/about", s.handleAbout)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/history/search", s.handleHistorySearch)
	mux.Handle("/metrics", promhttp.Handler())

	return s.withRequestID(s.withAccessLog(mux))
}

// Start begins serving. Blocks until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.logger.Info("http server starting", map[string]interface{}{
		"address": s.config.Address,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("http server stopping", nil)
	return s.httpServer.Shutdown(ctx)
}
