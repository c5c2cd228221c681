// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/talklens/talklens/internal/domain/model"
)

// RubricHandler handles rubric summary requests.
type RubricHandler struct {
	deps Dependencies
}

// NewRubricHandler creates a new rubric handler.
func NewRubricHandler(deps Dependencies) *RubricHandler {
	return &RubricHandler{deps: deps}
}

type rubricResponse struct {
	Success bool             `json:"success"`
	Rubric  model.RubricInfo `json:"rubric"`
}

// HandleGetRubric handles GET /api/rubric requests.
func (h *RubricHandler) HandleGetRubric(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, rubricResponse{Success: true, Rubric: h.deps.RubricInfo(r.Context())})
}
