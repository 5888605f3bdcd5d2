// Package api provides the HTTP REST API server for StrategySim.
//
// It exposes endpoints for decision analysis, risk assessment, Monte Carlo
// simulation, the analysis toolkit catalog, report rendering, and WebSocket
// streaming of live analysis progress.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/strategysim/strategysim/internal/agent"
	"github.com/strategysim/strategysim/internal/config"
	"github.com/strategysim/strategysim/internal/finance"
	"github.com/strategysim/strategysim/internal/report"
	"github.com/strategysim/strategysim/internal/research"
	"github.com/strategysim/strategysim/internal/risk"
	"github.com/strategysim/strategysim/internal/toolkit"
	"github.com/strategysim/strategysim/pkg/models"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	team   *agent.Team
	wsHub  *WSHub
	log    zerolog.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, log zerolog.Logger) *Server {
	srv := &Server{
		cfg:   cfg,
		wsHub: NewWSHub(),
		log:   log,
	}

	var researcher agent.Researcher
	if cfg.Analysis.EnableResearch {
		researcher = newResearcher(cfg.Research)
	}

	srv.team = agent.NewTeam(agent.TeamConfig{
		Iterations: cfg.Analysis.Iterations,
		Seed:       cfg.Analysis.Seed,
		Researcher: researcher,
		Logger:     log,
		Progress:   srv.broadcastProgress,
	})

	srv.router = srv.buildRouter()
	return srv
}

// newResearcher builds a news source from the research config.
func newResearcher(cfg config.ResearchConfig) *research.Source {
	return research.NewSourceFromURLs(cfg.Feeds, research.Options{
		CacheTTL:   time.Duration(cfg.CacheTTL) * time.Second,
		RatePerSec: cfg.RatePerSec,
	})
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub
	go s.wsHub.Run()

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	s.log.Info().Str("addr", addr).Msg("API server listening")
	<-done
	s.log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Decision analysis
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/validate", s.handleValidate)
		r.Get("/agents", s.handleAgents)

		// Risk toolkit
		r.Post("/assess", s.handleAssess)
		r.Post("/simulate", s.handleSimulate)
		r.Get("/tools", s.handleTools)
		r.Post("/tools/{name}", s.handleToolInvoke)

		// Reports
		r.Post("/report", s.handleReport)

		// WebSocket streaming
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalyzeRequest is the body for POST /api/v1/analyze.
type AnalyzeRequest struct {
	Decision *models.DecisionInput `json:"decision"`
	Format   string                `json:"format,omitempty"` // optional report format to render inline
}

// AnalyzeResponse pairs the decision report with an optional rendering.
type AnalyzeResponse struct {
	Report   *models.DecisionReport `json:"report"`
	Rendered string                 `json:"rendered,omitempty"`
}

// ReportRequest is the body for POST /api/v1/report.
type ReportRequest struct {
	Report *models.DecisionReport `json:"report"`
	Format string                 `json:"format,omitempty"`
	Title  string                 `json:"title,omitempty"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": "dev",
			"time":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Decision == nil {
		writeError(w, http.StatusBadRequest, "decision is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	rep, err := s.team.Analyze(ctx, req.Decision)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, agent.ErrInvalidDecision) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	resp := AnalyzeResponse{Report: rep}
	if req.Format != "" {
		rendered, err := report.Generate(rep, report.Config{
			Format: report.Format(req.Format),
			Author: s.cfg.Report.Author,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		resp.Rendered = rendered
	}

	// Broadcast to WebSocket clients
	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_complete",
		Data: map[string]interface{}{
			"report_id":      rep.ID,
			"recommendation": rep.Recommendation,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var decision models.DecisionInput
	if err := json.NewDecoder(r.Body).Decode(&decision); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: decision.Validate()})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	type agentInfo struct {
		Name        string `json:"name"`
		Role        string `json:"role"`
		Description string `json:"description"`
	}
	var infos []agentInfo
	for _, a := range s.team.Agents() {
		infos = append(infos, agentInfo{
			Name:        a.Name(),
			Role:        string(a.Role()),
			Description: a.Description(),
		})
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: infos})
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	s.invokeOp(w, r, toolkit.OpRiskAssessment)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	s.invokeOp(w, r, toolkit.OpMonteCarlo)
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: toolkit.Catalog()})
}

func (s *Server) handleToolInvoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	op, ok := toolkit.OpFromName(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown operation: "+name)
		return
	}
	s.invokeOp(w, r, op)
}

// invokeOp decodes the body as raw JSON and dispatches it to one catalog
// operation, translating validation failures to 400s.
func (s *Server) invokeOp(w http.ResponseWriter, r *http.Request, op toolkit.Op) {
	var args json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	result, err := toolkit.Invoke(ctx, op, args)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, finance.ErrInvalidArgument) || errors.Is(err, risk.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Report == nil {
		writeError(w, http.StatusBadRequest, "report is required")
		return
	}

	cfg := report.Config{
		Format: report.Format(req.Format),
		Title:  req.Title,
		Author: s.cfg.Report.Author,
	}
	rendered, err := report.Generate(req.Report, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch cfg.Format {
	case report.FormatHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(rendered)) //nolint:errcheck
	default:
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: rendered})
	}
}

// broadcastProgress relays team progress events to WebSocket clients.
func (s *Server) broadcastProgress(ev agent.ProgressEvent) {
	s.wsHub.Broadcast(WSMessage{Type: "progress", Data: ev})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// ============================================================
// WebSocket Hub
// ============================================================

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run starts the hub event loop.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow client; disconnect
					h.mu.RUnlock()
					h.mu.Lock()
					delete(h.clients, client)
					close(client.send)
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	h.unregister <- client
}
