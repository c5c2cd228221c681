// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/talklens/talklens/internal/domain/embedding"
	"github.com/talklens/talklens/internal/domain/model"
	"github.com/talklens/talklens/internal/domain/scoring"
	"github.com/talklens/talklens/pkg/logger"
)

// ScoreHandler handles transcript scoring requests.
type ScoreHandler struct {
	deps Dependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps Dependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// scoreResponse is the envelope returned by POST /api/score.
type scoreResponse struct {
	Success bool                `json:"success"`
	Result  model.ScoringResult `json:"result"`
}

// HandlePostScore handles POST /api/score requests.
func (h *ScoreHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid JSON body", ErrBadRequest))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	result, err := h.deps.Score(r.Context(), req.Transcript)
	if err != nil {
		h.writeScoreError(w, r, err)
		return
	}

	// Round the headline number for presentation; the per-criterion
	// breakdowns keep full precision.
	result.OverallScore = math.Round(result.OverallScore*10) / 10

	writeJSON(w, http.StatusOK, scoreResponse{Success: true, Result: result})
}

// writeScoreError maps domain errors to HTTP statuses. Input violations
// carry their detail to the caller; everything else is logged with detail
// and answered generically.
func (h *ScoreHandler) writeScoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scoring.ErrInsufficientInput),
		errors.Is(err, scoring.ErrTranscriptTooLong):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, embedding.ErrUnavailable),
		errors.Is(err, embedding.ErrNotReady):
		logger.Get().Warn(r.Context(), "scoring unavailable", logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, ErrUnavailable)
	default:
		logger.Get().Error(r.Context(), "scoring failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, ErrInternal)
	}
}
