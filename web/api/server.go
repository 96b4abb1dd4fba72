// Package api serves generation status over HTTP: the last run report,
// per-domain artifact state, the manifest, and a websocket event stream
// for live progress.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/psychometrika/reportforge/internal/domain"
	"github.com/psychometrika/reportforge/internal/orchestrator"
)

// Server is the HTTP status server.
type Server struct {
	addr      string
	workspace string
	specs     []domain.DomainSpec
	mux       *http.ServeMux
	hub       *Hub

	mu     sync.RWMutex
	report *domain.RunReport
}

// NewServer creates a status server over a workspace.
func NewServer(addr, workspace string, specs []domain.DomainSpec) *Server {
	s := &Server{
		addr:      addr,
		workspace: workspace,
		specs:     specs,
		mux:       http.NewServeMux(),
		hub:       NewHub(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/status", s.statusHandler())
	s.mux.HandleFunc("/api/domains", s.domainsHandler())
	s.mux.HandleFunc("/api/manifest", s.manifestHandler())
	s.mux.HandleFunc("/api/events", s.eventsHandler())
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// SetReport publishes the latest run report.
func (s *Server) SetReport(r *domain.RunReport) {
	s.mu.Lock()
	s.report = r
	s.mu.Unlock()
}

// HandleEvent forwards orchestrator progress to websocket clients.
// Wire it as the orchestrator's event func.
func (s *Server) HandleEvent(ev orchestrator.Event) {
	s.hub.Broadcast(ev)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
