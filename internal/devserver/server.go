// Package devserver is a stand-in for the study backend. It speaks the same
// wire protocol as the real service with canned content: no PDF parsing,
// embeddings, retrieval or generation happen here. It backs the dev-server
// command and the API client tests.
package devserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rootmind/go-rootmind/internal/tuilog"
)

// Config holds dev server configuration.
type Config struct {
	Host      string
	Port      int
	ChunkSize int    // bytes per reported chunk
	Model     string // reported by /health
	Token     string // when set, requests need "Authorization: Bearer <Token>"
	Quiet     bool   // disable per-request access logging
}

// DefaultConfig matches the address the client expects by default.
func DefaultConfig() Config {
	return Config{
		Host:      "localhost",
		Port:      8000,
		ChunkSize: 1000,
		Model:     "rootmind-dev",
	}
}

// Server serves the stub API.
type Server struct {
	config Config
	router chi.Router

	mu     sync.Mutex
	docs   map[string]*document
	latest string // id of the last uploaded document
}

// New creates a Server.
func New(config Config) *Server {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultConfig().ChunkSize
	}
	s := &Server{
		config: config,
		docs:   make(map[string]*document),
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	if !s.config.Quiet {
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  tuilogPrinter{},
			NoColor: true,
		}))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(bearerAuth(s.config.Token))
		r.Post("/upload", s.handleUpload)
		r.Post("/study/metadata", s.handleGenerateMetadata)
		r.Get("/study/metadata", s.handleGetMetadata)
		r.Post("/ask", s.handleAsk)
	})

	return r
}

// Router returns the HTTP handler. Tests mount it on httptest.NewServer.
func (s *Server) Router() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
}

// Listen binds the configured address. With port 0 the chosen port is
// recorded so Addr reports it.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	if s.config.Port == 0 {
		s.config.Port = ln.Addr().(*net.TCPAddr).Port
	}
	return ln, nil
}

// Port returns the configured or assigned port.
func (s *Server) Port() int {
	return s.config.Port
}

// Serve handles connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	tuilog.Log.Info("dev server stopped", "addr", s.Addr())
	return nil
}

// corsMiddleware allows browser front ends on other local ports.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Document-ID, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// tuilogPrinter routes chi's access log into the log file.
type tuilogPrinter struct{}

func (tuilogPrinter) Print(v ...any) {
	tuilog.Log.Info(fmt.Sprint(v...))
}
