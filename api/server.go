// Package api publishes the node registry over HTTP: schema discovery for
// graph editors and single-node invocation.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hvppyflow/hfnodes"
	"github.com/hvppyflow/hfnodes/invoke"
	"github.com/hvppyflow/hfnodes/ui"
)

// Server serves the registry held by an invoker.
type Server struct {
	invoker  *invoke.Invoker
	history  *ui.Recorder
	gatherer prometheus.Gatherer
	logger   hfnodes.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithHistory exposes the events of rec on /history.
func WithHistory(rec *ui.Recorder) Option {
	return func(s *Server) { s.history = rec }
}

// WithGatherer exposes g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets the logger.
func WithLogger(logger hfnodes.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a server on top of inv.
func NewServer(inv *invoke.Invoker, opts ...Option) *Server {
	s := &Server{invoker: inv, logger: hfnodes.NopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InvokeBody is the request body of POST /nodes/{node}/invoke.
type InvokeBody struct {
	ID     string         `json:"id,omitempty"`
	Inputs hfnodes.Inputs `json:"inputs"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// ErrorBody is returned on failures.
type ErrorBody struct {
	Error string `json:"error"`
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/object_info", s.handleObjectInfo)
	r.Get("/object_info/{node}", s.handleNodeInfo)
	r.Post("/nodes/{node}/invoke", s.handleInvoke)

	if s.history != nil {
		r.Get("/history", s.handleHistory)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	webDir := s.invoker.Registry().WebDirectory
	if info, err := os.Stat(webDir); err == nil && info.IsDir() {
		r.Handle("/extensions/*", http.StripPrefix("/extensions/", http.FileServer(http.Dir(webDir))))
	}

	return r
}

func (s *Server) handleObjectInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.invoker.Registry().Schemas())
}

func (s *Server) handleNodeInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "node")
	info, err := s.invoker.Registry().Info(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]hfnodes.NodeInfo{id: info})
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	var body InvokeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: "invalid request body: " + err.Error()})
		return
	}

	resp, err := s.invoker.Invoke(r.Context(), invoke.Request{
		Node:   chi.URLParam(r, "node"),
		ID:     body.ID,
		Inputs: body.Inputs,
		Extra:  body.Extra,
	})
	if err != nil {
		s.logger.Error(r.Context(), "invoke failed", "node", chi.URLParam(r, "node"), "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	events := s.history.Events()
	if events == nil {
		events = []ui.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, hfnodes.ErrUnknownNode):
		status = http.StatusNotFound
	case errors.Is(err, hfnodes.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, ErrorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
