package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pegengine/pkg/engine"
)

var log = logrus.New()

// SetLogger replaces the package logger.
func SetLogger(l *logrus.Logger) {
	log = l
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host            string        // Host to bind to (default "localhost")
	Port            int           // Port to listen on (default 8080)
	ReadTimeout     time.Duration // Read timeout (default 30s)
	WriteTimeout    time.Duration // Write timeout (default 60s, solver streams run long)
	IdleTimeout     time.Duration // Idle timeout (default 60s)
	SessionTTL      time.Duration // Idle games are dropped after this (default 30m, 0 = never)
	MaxSessions     int           // Max live games (default 10000, 0 = unlimited)
	MaxGameWorkers  int           // Max concurrent game operations (default 100)
	MaxSolveWorkers int           // Max concurrent solver runs (default 4)
	SolveMaxNodes   int           // Solver node budget per request (default 1,000,000)
	SolveCacheSize  int           // Finished solver runs to remember (default 1024, 0 = off)
}

// DefaultConfig returns a ServerConfig with sensible defaults.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:            "localhost",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     60 * time.Second,
		SessionTTL:      30 * time.Minute,
		MaxSessions:     10000,
		MaxGameWorkers:  100,
		MaxSolveWorkers: 4,
		SolveMaxNodes:   engine.DefaultSolveOptions().MaxNodes,
		SolveCacheSize:  engine.DefaultSolveCacheSize,
	}
}

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	sessions *SessionStore
	handlers *Handlers
	server   *http.Server
	pool     *WorkerPool
	version  string
	stop     context.CancelFunc
}

// NewServer creates a new API server.
func NewServer(config ServerConfig, version string) *Server {
	pool := NewWorkerPool(PoolConfig{
		MaxGameWorkers:  config.MaxGameWorkers,
		MaxSolveWorkers: config.MaxSolveWorkers,
	})
	sessions := NewSessionStore(config.SessionTTL, config.MaxSessions)
	handlers := NewHandlersWithPool(sessions, version, pool)

	opts := engine.DefaultSolveOptions()
	if config.SolveMaxNodes > 0 {
		opts.MaxNodes = config.SolveMaxNodes
	}
	handlers.SetSolveOptions(opts)
	if config.SolveCacheSize > 0 {
		handlers.SetSolveCache(engine.NewSolveCache(uint32(config.SolveCacheSize)))
	}

	return &Server{
		config:   config,
		sessions: sessions,
		handlers: handlers,
		pool:     pool,
		version:  version,
	}
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// Sessions returns the game session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack hands the connection to the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response does not implement http.Hijacker")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// loggingMiddleware logs all requests.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": rec.status,
			"took":   time.Since(start),
		}).Info("request")
	})
}

// Routes returns the API handler with middleware applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	h := s.handlers

	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/boards", h.ListBoards)
	mux.HandleFunc("POST /api/boards/decode", h.DecodeBoard)

	// Game sessions
	mux.HandleFunc("POST /api/games", h.CreateGame)
	mux.HandleFunc("GET /api/games/{id}", h.GetGame)
	mux.HandleFunc("DELETE /api/games/{id}", h.DeleteGame)
	mux.HandleFunc("POST /api/games/{id}/select", h.SelectPeg)
	mux.HandleFunc("POST /api/games/{id}/move", h.MoveGame)
	mux.HandleFunc("POST /api/games/{id}/undo", h.UndoGame)
	mux.HandleFunc("POST /api/games/{id}/expand", h.ExpandGame)
	mux.HandleFunc("GET /api/games/{id}/score", h.GameScore)
	mux.HandleFunc("GET /api/games/{id}/board", h.GameBoard)

	// Solver
	mux.HandleFunc("POST /api/solve", h.Solve)
	mux.HandleFunc("GET /api/solve/stream", h.SolveSSE)

	mux.HandleFunc("/api/ws", h.WebSocket)

	return corsMiddleware(loggingMiddleware(mux))
}

// Start starts the HTTP server and the session sweeper.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	go s.sessions.Run(ctx, s.config.SessionTTL/4)

	log.WithFields(logrus.Fields{
		"version": s.version,
		"addr":    addr,
		"boards":  len(engine.Boards()),
	}).Info("starting peg solitaire API server")
	log.Info("  GET    /api/boards              - Board catalog")
	log.Info("  POST   /api/games               - Start a game")
	log.Info("  POST   /api/games/{id}/move     - Jump a peg")
	log.Info("  POST   /api/solve               - Search for a solution")
	log.Info("  GET    /api/solve/stream        - Solver progress (SSE)")
	log.Info("  WS     /api/ws                  - WebSocket for interactive play")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stop != nil {
		s.stop()
	}
	return s.server.Shutdown(ctx)
}

// ListenAndServeWithGracefulShutdown starts the server and handles shutdown signals.
func (s *Server) ListenAndServeWithGracefulShutdown() error {
	// Channel to listen for errors from server
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until signal or error
	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.WithField("signal", sig).Info("shutting down")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}
