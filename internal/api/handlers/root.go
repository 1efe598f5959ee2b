package handlers

import (
	"net/http"
)

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "bizi",
		"description": "Zaragoza bike-share stations: availability, search, favorites",
		"version":     "1.0.0",
		"endpoints": map[string]string{
			"GET /api":                     "API information",
			"GET /health":                  "Health check",
			"GET /stations":                "Displayed station list",
			"GET /stations/all":            "All stations (map)",
			"GET /stations/search?q=":      "Remote station search",
			"GET /stations/alerts.pb":      "Out-of-service stations as GTFS-realtime",
			"GET /stations/{id}":           "Station detail",
			"POST /stations/refresh":       "Reload stations",
			"POST /stations/{id}/favorite": "Toggle favorite",
			"POST /stations/{id}/recent":   "Record recent search",
			"GET /state":                   "Current list state",
			"PUT /state/search":            "Set search text",
			"PUT /state/sort":              "Set sort mode",
			"PUT /state/location":          "Set user location",
			"POST /state/location/request": "Mark location lookup pending",
			"DELETE /state/location":       "Report location failure",
			"PUT /state/favorites-only":    "Show only favorites",
			"GET /recent-locations":        "Recent location searches",
			"POST /recent-locations":       "Record a location search",
			"GET /events":                  "State updates (SSE)",
		},
	})
}

func (h *RootHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Route not found",
		"message": "Check the /api endpoint for available routes",
	})
}
