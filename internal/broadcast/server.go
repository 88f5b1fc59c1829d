// Package broadcast serves a read-only live feed of the scoreboard for
// stream overlays and second screens.
//
// Routes:
//
//	GET /state    current snapshot as JSON
//	GET /ws       WebSocket; one "state" frame per change
//	GET /healthz  liveness and connection counters
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/logger"
)

// Source is the scoreboard being broadcast.
type Source interface {
	Snapshot() domain.State
	Subscribe(fn func(s domain.State)) (unsubscribe func())
}

// Option configures the server.
type Option func(*Server)

// WithAllowedOrigins restricts browser origins for CORS and WebSocket
// upgrades. "*" allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// Server is the broadcast HTTP server.
type Server struct {
	source  Source
	hub     *Hub
	log     *logger.Logger
	origins []string

	upgrader websocket.Upgrader
}

// NewServer creates a server for source.
func NewServer(source Source, log *logger.Logger, opts ...Option) *Server {
	s := &Server{
		source:  source,
		hub:     NewHub(log),
		log:     log,
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Hub returns the server's hub.
func (s *Server) Hub() *Hub { return s.hub }

// Start runs the hub and feeds it board changes until ctx is done.
// Handler requests made before Start block on registration.
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run(ctx)

	unsubscribe := s.source.Subscribe(s.hub.Publish)
	s.hub.Publish(s.source.Snapshot())
	go func() {
		<-ctx.Done()
		unsubscribe()
	}()
}

// Handler builds the router. Client pumps are scoped to ctx rather than
// to the upgrade request.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.handleWebSocket(ctx, w, r)
	})

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(10 * time.Second))
		r.Get("/state", s.handleState)
		r.Get("/healthz", s.handleHealth)
	})

	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve starts the hub and serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.Start(ctx)

	srv := &http.Server{
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("broadcast: shutdown: %v", err)
		}
	}()

	s.log.Info("broadcast: listening on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("broadcast: websocket upgrade: %v", err)
		return
	}

	c := NewClient(uuid.New().String(), conn, s.hub, s.log)
	s.hub.Register(c)

	go c.WritePump(ctx)
	go c.ReadPump(ctx)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.source.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":  "healthy",
		"service": "scorekeep",
	}
	for k, v := range s.hub.Metrics() {
		health[k] = v
	}
	writeJSON(w, http.StatusOK, health)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(s.origins, "*") || slices.Contains(s.origins, origin)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestLogger logs each request through the application logger; the
// terminal belongs to the scoreboard UI.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("broadcast: %s %s %d %s [%s]",
				r.Method, r.URL.Path, ww.Status(), time.Since(start), chimiddleware.GetReqID(r.Context()))
		})
	}
}
