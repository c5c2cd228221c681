// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/talklens/talklens/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Score runs the full scoring pipeline for one transcript.
	Score(ctx context.Context, transcript string) (model.ScoringResult, error)

	// Samples returns the bundled sample transcripts.
	Samples(ctx context.Context) []model.Sample

	// RubricInfo summarizes the loaded rubric.
	RubricInfo(ctx context.Context) model.RubricInfo

	// Ready reports whether scoring requests can be served.
	Ready(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	scoreHandler      *ScoreHandler
	batchScoreHandler *BatchScoreHandler
	samplesHandler    *SamplesHandler
	rubricHandler     *RubricHandler
	dashboardHandler  *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(deps),
		statsHandler:      NewStatsHandler(statsProvider),
		scoreHandler:      NewScoreHandler(deps),
		batchScoreHandler: NewBatchScoreHandler(deps),
		samplesHandler:    NewSamplesHandler(deps),
		rubricHandler:     NewRubricHandler(deps),
		dashboardHandler:  newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/api/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/score", MetricsMiddleware(s.scoreHandler.HandlePostScore, "score"))
	mux.HandleFunc("/api/batch-score", MetricsMiddleware(s.batchScoreHandler.HandlePostBatchScore, "batch-score"))
	mux.HandleFunc("/api/samples", MetricsMiddleware(s.samplesHandler.HandleGetSamples, "samples"))
	mux.HandleFunc("/api/rubric", MetricsMiddleware(s.rubricHandler.HandleGetRubric, "rubric"))
}

// scoreRequest mirrors the OpenAPI schema for POST /api/score.
type scoreRequest struct {
	Transcript string `json:"transcript"`
}

func (s scoreRequest) validate() error {
	if strings.TrimSpace(s.Transcript) == "" {
		return errors.New("missing transcript")
	}
	return nil
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}
