// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/talklens/talklens/internal/domain/embedding"
	"github.com/talklens/talklens/internal/domain/model"
	"github.com/talklens/talklens/internal/domain/scoring"
	"github.com/talklens/talklens/pkg/logger"
)

// maxBatchItems bounds a single batch request so one call cannot monopolize
// the scoring pipeline.
const maxBatchItems = 100

// BatchScoreHandler handles multi-transcript scoring requests.
type BatchScoreHandler struct {
	deps Dependencies
}

// NewBatchScoreHandler creates a new batch score handler.
func NewBatchScoreHandler(deps Dependencies) *BatchScoreHandler {
	return &BatchScoreHandler{deps: deps}
}

// batchScoreRequest mirrors the OpenAPI schema for POST /api/batch-score.
type batchScoreRequest struct {
	Transcripts []string `json:"transcripts"`
}

// batchScoreItem carries the outcome for one transcript. IDs are 1-based
// positions in the request array; exactly one of Result and Error is set.
type batchScoreItem struct {
	ID     int                  `json:"id"`
	Result *model.ScoringResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// batchScoreResponse is the envelope returned by POST /api/batch-score.
type batchScoreResponse struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Results []batchScoreItem `json:"results"`
}

// HandlePostBatchScore handles POST /api/batch-score requests. Transcripts
// are scored independently: one bad item yields an item-level error while
// the rest of the batch still scores.
func (h *BatchScoreHandler) HandlePostBatchScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid JSON body", ErrBadRequest))
		return
	}
	if len(req.Transcripts) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: missing transcripts array", ErrBadRequest))
		return
	}
	if len(req.Transcripts) > maxBatchItems {
		writeError(w, http.StatusBadRequest,
			fmt.Errorf("%w: %d transcripts, at most %d per batch", ErrBadRequest, len(req.Transcripts), maxBatchItems))
		return
	}

	// Items are scored sequentially; each Score call already fans out over
	// the rubric's criteria.
	results := make([]batchScoreItem, 0, len(req.Transcripts))
	for i, transcript := range req.Transcripts {
		results = append(results, h.scoreItem(r, i+1, transcript))
	}

	writeJSON(w, http.StatusOK, batchScoreResponse{
		Success: true,
		Count:   len(results),
		Results: results,
	})
}

func (h *BatchScoreHandler) scoreItem(r *http.Request, id int, transcript string) batchScoreItem {
	if strings.TrimSpace(transcript) == "" {
		return batchScoreItem{ID: id, Error: "missing transcript"}
	}

	result, err := h.deps.Score(r.Context(), transcript)
	if err != nil {
		return batchScoreItem{ID: id, Error: itemErrorMessage(r, err)}
	}

	result.OverallScore = math.Round(result.OverallScore*10) / 10
	return batchScoreItem{ID: id, Result: &result}
}

// itemErrorMessage mirrors writeScoreError's mapping at item granularity:
// input violations keep their detail, everything else is logged and
// answered generically.
func itemErrorMessage(r *http.Request, err error) string {
	switch {
	case errors.Is(err, scoring.ErrInsufficientInput),
		errors.Is(err, scoring.ErrTranscriptTooLong):
		return err.Error()
	case errors.Is(err, embedding.ErrUnavailable),
		errors.Is(err, embedding.ErrNotReady):
		logger.Get().Warn(r.Context(), "batch item scoring unavailable", logger.Error(err))
		return ErrUnavailable.Error()
	default:
		logger.Get().Error(r.Context(), "batch item scoring failed", logger.Error(err))
		return ErrInternal.Error()
	}
}
