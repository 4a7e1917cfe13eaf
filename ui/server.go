package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"genml/adapters/report"
	"genml/app"
	"genml/domain/core"
	"genml/domain/genml"
	"genml/internal/testkit"
	"genml/ports"
)

// Server exposes the estimation pipeline over HTTP: one-shot estimation,
// run history when a repository is configured, and HTML reports.
type Server struct {
	router  *chi.Mux
	service *app.EstimationService
	results ports.ResultRepository // nil when persistence is not configured
}

// Config holds server configuration
type Config struct {
	Port string
}

// NewServer creates the HTTP server around an estimation service.
func NewServer(service *app.EstimationService, results ports.ResultRepository) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		results: results,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Post("/api/estimate", s.handleEstimate)
	s.router.Get("/api/demo", s.handleDemo)
	s.router.Get("/api/runs", s.handleListRuns)
	s.router.Get("/api/runs/{id}", s.handleGetRun)
	s.router.Get("/api/runs/{id}/report", s.handleRunReport)
}

// Router returns the HTTP handler for mounting or testing.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server on the configured port.
func (s *Server) Start(config Config) error {
	addr := ":" + config.Port
	log.Printf("genml server listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// estimateRequest is the POST /api/estimate payload.
type estimateRequest struct {
	X           [][]float64 `json:"x"`
	Y           []float64   `json:"y"`
	D           []float64   `json:"d"`
	P           []float64   `json:"p"`
	SecondStage string      `json:"second_stage,omitempty"`
	Q           int         `json:"q,omitempty"`
	ProbM       float64     `json:"prob_m,omitempty"`
	WithSummary bool        `json:"with_summary,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := s.service.Run(r.Context(), app.EstimateRequest{
		Dataset:     genml.Dataset{X: req.X, Y: req.Y, D: req.D, P: req.P},
		SecondStage: genml.SecondStage(req.SecondStage),
		Q:           req.Q,
		ProbM:       req.ProbM,
		WithSummary: req.WithSummary,
	})
	if err != nil {
		writeEstimationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleDemo runs a synthetic scenario end to end, mostly for smoke-testing
// a deployment without uploading data.
func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	n := 1000
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 10 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("n must be an integer >= 10"))
			return
		}
		n = parsed
	}

	gen := rand.New(rand.NewSource(1))
	var ds genml.Dataset
	stage := genml.SecondStageBLP
	switch r.URL.Query().Get("scenario") {
	case "", "linear":
		ds = testkit.LinearEffectScenario(n, gen)
	case "constant":
		ds = testkit.ConstantEffectScenario(n, 0.7, gen)
	case "signflip":
		ds = testkit.SignFlipScenario(n, gen)
		stage = genml.SecondStageGATES
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown scenario"))
		return
	}

	result, err := s.service.Run(r.Context(), app.EstimateRequest{
		Dataset:     ds,
		SecondStage: stage,
		WithSummary: true,
	})
	if err != nil {
		writeEstimationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("run history requires a configured database"))
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	results, err := s.results.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	result, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	result, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(report.RenderHTML(report.Markdown(result)))
}

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*genml.EstimationResult, bool) {
	if s.results == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("run history requires a configured database"))
		return nil, false
	}
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	result, err := s.results.GetByID(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrResultNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return nil, false
	}
	return result, true
}

// writeEstimationError maps the domain error taxonomy onto HTTP statuses:
// bad arguments are the caller's fault, degenerate inputs are unprocessable
// data, singular systems are a plain failure.
func writeEstimationError(w http.ResponseWriter, err error) {
	switch {
	case core.IsInvalidArgument(err):
		writeError(w, http.StatusBadRequest, err)
	case core.IsDegenerateInput(err):
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
