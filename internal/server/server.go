// Package server exposes tuner readings over HTTP: the latest reading and
// the tuning as JSON, a WebSocket stream of every reading, health probes and
// Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/cwbudde/algo-tuner/internal/observe"
	"github.com/cwbudde/algo-tuner/measure/tuner"
	"github.com/cwbudde/algo-tuner/measure/tuning"
)

const (
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Tuning *tuning.Tuning
	// AllowedOrigins are full origins such as "http://localhost:5173".
	// Empty allows same-origin requests only.
	AllowedOrigins []string
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Metrics        *observe.Metrics
	Logger         *slog.Logger
}

// Server is safe for concurrent use. Publish is called from the audio
// path and never blocks on clients.
type Server struct {
	opts    Options
	log     *slog.Logger
	hub     *hub
	handler http.Handler

	mu      sync.RWMutex
	latest  []byte
	updated time.Time
}

// New builds the router.
func New(opts Options) *Server {
	if opts.Tuning == nil {
		opts.Tuning = tuning.Standard()
	}
	if opts.Metrics == nil {
		opts.Metrics = observe.DefaultMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		opts: opts,
		log:  opts.Logger.With("component", "server"),
		hub:  newHub(),
	}

	router := mux.NewRouter().StrictSlash(true)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(observe.Middleware(opts.Metrics, s.log))
	api.HandleFunc("/reading", s.handleReading).Methods("GET")
	api.HandleFunc("/tuning", s.handleTuning).Methods("GET")

	router.HandleFunc("/ws", s.handleStream).Methods("GET")
	router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")
	router.HandleFunc("/readyz", s.handleReadyz).Methods("GET")
	if opts.MetricsHandler != nil {
		router.Handle("/metrics", opts.MetricsHandler).Methods("GET")
	}

	corsOpts := cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}
	if len(opts.AllowedOrigins) == 0 {
		// rs/cors treats an empty list as "*".
		corsOpts.AllowOriginFunc = func(string) bool { return false }
	}
	s.handler = cors.New(corsOpts).Handler(router)

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Publish stores r as the latest reading and sends it to stream clients.
func (s *Server) Publish(ctx context.Context, r tuner.Reading) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("server: encode reading: %w", err)
	}

	s.mu.Lock()
	s.latest = data
	s.updated = time.Now()
	s.mu.Unlock()

	for range s.hub.broadcast(data) {
		s.opts.Metrics.RecordDropped(ctx, "stream")
	}

	return nil
}

// Clients returns the number of connected stream clients.
func (s *Server) Clients() int {
	return s.hub.len()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}

	return nil
}

func (s *Server) handleReading(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	data := s.latest
	s.mu.RUnlock()

	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleTuning(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Tuning.Strings())
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(s.opts.AllowedOrigins),
	})
	if err != nil {
		s.log.Debug("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	c := s.hub.add()
	defer s.hub.remove(c)

	s.opts.Metrics.StreamClients.Add(r.Context(), 1)
	defer s.opts.Metrics.StreamClients.Add(context.Background(), -1)

	// Clients only listen; CloseRead handles their control frames.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case msg := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				s.log.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

type health struct {
	Status  string `json:"status"`
	Clients int    `json:"clients"`
	// LastReading is the age of the latest reading.
	LastReading string `json:"last_reading,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, health{Status: "ok", Clients: s.hub.len()})
}

// handleReadyz reports ready once audio has produced a reading within the
// last two seconds.
func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	updated := s.updated
	s.mu.RUnlock()

	if updated.IsZero() || time.Since(updated) > 2*time.Second {
		writeJSON(w, http.StatusServiceUnavailable, health{Status: "fail", Clients: s.hub.len()})
		return
	}

	writeJSON(w, http.StatusOK, health{
		Status:      "ok",
		Clients:     s.hub.len(),
		LastReading: time.Since(updated).Round(time.Millisecond).String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// originPatterns turns origins into the host patterns websocket.Accept
// matches against.
func originPatterns(origins []string) []string {
	var out []string
	for _, o := range origins {
		if o == "*" {
			out = append(out, "*")
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
		}
	}
	return out
}
