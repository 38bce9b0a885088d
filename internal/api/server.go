// Package api serves the catalog, the live visualizations and the tutor
// over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/san-kum/mllab/internal/experiment"
	"github.com/san-kum/mllab/internal/sim"
	"github.com/san-kum/mllab/internal/tutor"
)

// Server holds one visualization instance per kind and the process-wide
// tutor session.
type Server struct {
	instances map[string]*sim.Instance
	names     []string
	session   *tutor.Session
	logger    *log.Logger
	router    *mux.Router

	// ctx outlives requests; training loops started over HTTP run under it.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer builds an instance of every registered visualization from
// seed. session may be nil, in which case the ask endpoint answers 503.
func NewServer(reg *experiment.Registry, session *tutor.Session, seed int64, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		instances: make(map[string]*sim.Instance),
		names:     reg.ListVisualizations(),
		session:   session,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, name := range s.names {
		vis, err := reg.GetVisualization(name)
		if err != nil {
			continue
		}
		s.instances[name] = sim.NewInstance(vis, seed, 0)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Status string `json:"status"`
		}{"ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/topics", s.handleTopics).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/topics/{id}", s.handleTopic).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/topics/{id}/ask", s.handleAsk).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/chat", s.handleChat).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/viz", s.handleVizList).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/viz/{type}", s.handleViz).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/viz/{type}/scene.svg", s.handleSVG).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/viz/{type}/params", s.handleParams).Methods(http.MethodPut)
	r.HandleFunc("/api/v1/viz/{type}/{action:train|stop|step|reset|project|vectors}", s.handleAction).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found.")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Invalid method.")
	})
	s.router = r
}

// Handler returns the router wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequest(s.router)
}

func (s *Server) logRequest(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		handler.ServeHTTP(w, r)
		s.logger.Info("request", "remote", r.RemoteAddr, "method", r.Method, "url", r.URL.String(), "elapsed", time.Since(start))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// and stops every training loop.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errs := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", "listen", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops all training loops.
func (s *Server) Close() {
	s.cancel()
	for _, in := range s.instances {
		in.Stop()
	}
}

// writeJSON encodes v before writing the header so an unencodable value
// yields a 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(struct {
			Msg string `json:"msg"`
		}{"encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Msg string `json:"msg"`
	}{msg})
}
