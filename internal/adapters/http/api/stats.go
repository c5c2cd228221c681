// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// StatsProvider exposes the scoring service's operational counters.
type StatsProvider interface {
	// GetStats reports lifecycle state (started, parallelism, degraded
	// fallback), the scoring counters (scoredTotal, degradedTotal,
	// rejectedTotal), the loaded rubric shape and the last scored result.
	GetStats() map[string]interface{}
}

// StatsHandler serves the live scoring counters the dashboard polls.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests. Counters are point-in-time
// reads, so responses are never cacheable.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(h.statsProvider.GetStats())
}
