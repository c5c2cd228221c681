// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/talklens/talklens/internal/domain/model"
)

// SamplesHandler handles sample-transcript requests.
type SamplesHandler struct {
	deps Dependencies
}

// NewSamplesHandler creates a new samples handler.
func NewSamplesHandler(deps Dependencies) *SamplesHandler {
	return &SamplesHandler{deps: deps}
}

type samplesResponse struct {
	Success bool           `json:"success"`
	Samples []model.Sample `json:"samples"`
}

// HandleGetSamples handles GET /api/samples requests.
func (h *SamplesHandler) HandleGetSamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	list := h.deps.Samples(r.Context())
	if list == nil {
		list = []model.Sample{}
	}
	writeJSON(w, http.StatusOK, samplesResponse{Success: true, Samples: list})
}
