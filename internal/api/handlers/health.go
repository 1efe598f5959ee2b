// Package handlers contains HTTP request handlers
package handlers

import (
	"net/http"
	"time"

	"github.com/randytsao24/bizi/internal/stations"
)

type HealthHandler struct {
	ctrl      *stations.Controller
	startTime time.Time
}

func NewHealthHandler(ctrl *stations.Controller) *HealthHandler {
	return &HealthHandler{ctrl: ctrl, startTime: time.Now()}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.ctrl.State()

	body := map[string]any{
		"status":          "OK",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"version":         "1.0.0",
		"uptime":          time.Since(h.startTime).String(),
		"stations_loaded": st.Total,
	}
	if !st.LastRefreshed.IsZero() {
		body["last_refreshed"] = st.LastRefreshed.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, body)
}
