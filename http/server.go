package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/larsmarsfars/chatsite"
	"github.com/larsmarsfars/chatsite/crawl"
	"github.com/larsmarsfars/chatsite/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout is the time to give in-flight requests to finish.
const ShutdownTimeout = 5 * time.Second

// Server is the HTTP server for the chat assistant API. Services are
// attached as plain fields before Open is called; a nil Chat means no
// language-model credential is configured.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *http.ServeMux

	// Bind address, e.g. ":8787".
	Addr string

	Logger  *slog.Logger
	Metrics *prometheus.Metrics

	Ingester *crawl.Ingester
	Chat     chatsite.ChatService
	Images   []chatsite.ImageSearcher

	// Refs is a static JSON array served verbatim with chat replies,
	// typically links to the portfolio owner's profiles.
	Refs json.RawMessage
}

// NewServer creates a new Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		router:  http.NewServeMux(),
		server:  &http.Server{},
		Logger:  slog.Default(),
		Metrics: prometheus.NewMetrics(),
	}
	s.server.Handler = s

	s.router.HandleFunc("POST /api/ingest", s.handleIngest)
	s.router.HandleFunc("POST /api/ask", s.handleAsk)
	s.router.HandleFunc("POST /api/images", s.handleImages)
	s.router.HandleFunc("GET /healthz", s.handleHealthz)

	return s
}

// ServeHTTP dispatches to the router through the middleware stack. The
// /metrics handler is registered lazily so it sees the final Metrics
// instance even when the field is swapped after NewServer.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && r.URL.Path == "/metrics" {
		promhttp.HandlerFor(s.Metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
		return
	}
	s.withObservability(s.router).ServeHTTP(w, r)
}

// Open starts listening on Addr and serves in a background goroutine.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			s.Logger.Error("http server", "err", err)
		}
	}()

	s.Logger.Info("listening", "addr", s.ln.Addr().String())
	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, map[string]bool{"ok": true})
}
