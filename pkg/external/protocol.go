// Package external implements a line-oriented TCP protocol for playing and
// solving peg-solitaire boards from other programs or a terminal.
//
// Protocol overview:
// - Server listens on a TCP port
// - Client connects and sends one command per line
// - Each connection plays its own game
// - Boards are loaded by catalog name or by board ID
// - Responses are plain text; failures start with "Error:"
package external

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger replaces the package logger.
func SetLogger(l *logrus.Logger) {
	log = l
}

// Server implements the line protocol server.
type Server struct {
	listener net.Listener
	mu       sync.Mutex
	running  bool
	options  ServerOptions
	ctx      context.Context
	cancel   context.CancelFunc
}

// ServerOptions configures the protocol server.
type ServerOptions struct {
	Host          string // Interface to bind (default all)
	Port          int    // TCP port to listen on (0 picks a free port)
	PromptEnabled bool   // Send prompts after responses
	SolveMaxNodes int    // Default solver budget per solve command
}

// DefaultServerOptions returns sensible defaults.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		Port:          1234,
		PromptEnabled: true,
	}
}

// NewServer creates a new protocol server.
func NewServer(opts ServerOptions) *Server {
	return &Server{
		options: opts,
	}
}

// Start begins listening for connections.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	addr := fmt.Sprintf("%s:%d", s.options.Host, s.options.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = listener
	s.running = true
	s.ctx, s.cancel = context.WithCancel(context.Background())

	log.WithField("addr", listener.Addr().String()).Info("line protocol server listening")
	go s.acceptLoop()

	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop stops the server. Running solves are cancelled.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	s.cancel()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// acceptLoop accepts incoming connections.
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return // Server stopped
			}
			log.WithError(err).Warn("accept failed")
			continue
		}

		go s.handleConnection(s.ctx, conn)
	}
}

// handleConnection serves a single client connection.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	entry := log.WithField("remote", conn.RemoteAddr().String())
	entry.Debug("client connected")

	p := NewProcessor(s.options)
	if err := p.Serve(ctx, conn, conn, s.options.PromptEnabled); err != nil {
		entry.WithError(err).Warn("connection ended with error")
		return
	}
	entry.Debug("client disconnected")
}
