package handlers

import (
	"net/http"
	"strings"

	"github.com/randytsao24/bizi/internal/models"
	"github.com/randytsao24/bizi/internal/stations"
)

// StateHandler forwards user actions to the controller and returns the
// resulting state
type StateHandler struct {
	ctrl    *stations.Controller
	history LocationHistory
}

func NewStateHandler(ctrl *stations.Controller, history LocationHistory) *StateHandler {
	return &StateHandler{ctrl: ctrl, history: history}
}

func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.State())
}

func (h *StateHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid search", err.Error())
		return
	}

	h.ctrl.SetSearchText(req.Text)
	writeJSON(w, http.StatusOK, h.ctrl.State())
}

func (h *StateHandler) SetSort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sort", err.Error())
		return
	}

	mode, ok := stations.ParseSortMode(req.Mode)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid sort mode", "mode must be alphabetical or distance")
		return
	}

	h.ctrl.SetSortMode(mode)
	writeJSON(w, http.StatusOK, h.ctrl.State())
}

type coordinateRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (c coordinateRequest) validate() (models.Coordinate, string) {
	if c.Lat == nil || c.Lng == nil {
		return models.Coordinate{}, "lat and lng are required"
	}
	if *c.Lat < -90 || *c.Lat > 90 {
		return models.Coordinate{}, "lat must be between -90 and 90"
	}
	if *c.Lng < -180 || *c.Lng > 180 {
		return models.Coordinate{}, "lng must be between -180 and 180"
	}
	return models.Coordinate{Latitude: *c.Lat, Longitude: *c.Lng}, ""
}

// SetLocation receives a position from the device location provider
func (h *StateHandler) SetLocation(w http.ResponseWriter, r *http.Request) {
	var req coordinateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid location", err.Error())
		return
	}

	coord, problem := req.validate()
	if problem != "" {
		writeError(w, http.StatusBadRequest, "Invalid location", problem)
		return
	}

	h.ctrl.SetUserLocation(coord)
	writeJSON(w, http.StatusOK, h.ctrl.State())
}

// LocationFailed is called when the location provider reports an error
func (h *StateHandler) LocationFailed(w http.ResponseWriter, r *http.Request) {
	h.ctrl.LocationFailed()
	writeJSON(w, http.StatusOK, h.ctrl.State())
}

// RequestLocation marks a new location lookup as pending
func (h *StateHandler) RequestLocation(w http.ResponseWriter, r *http.Request) {
	h.ctrl.RequestLocation()
	writeJSON(w, http.StatusAccepted, h.ctrl.State())
}

func (h *StateHandler) SetFavoritesOnly(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid favorites filter", err.Error())
		return
	}

	h.ctrl.SetFavoritesOnly(req.Enabled)
	writeJSON(w, http.StatusOK, h.ctrl.State())
}

// RecentLocations lists the places the user looked up, newest first
func (h *StateHandler) RecentLocations(w http.ResponseWriter, r *http.Request) {
	locations := h.history.LoadRecentLocations(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"locations": locations,
		"count":     len(locations),
	})
}

// AddRecentLocation remembers a looked-up place. With ?apply=true the place
// also becomes the user location for distance sorting.
func (h *StateHandler) AddRecentLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		coordinateRequest
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid location", err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Invalid location", "name is required")
		return
	}
	coord, problem := req.validate()
	if problem != "" {
		writeError(w, http.StatusBadRequest, "Invalid location", problem)
		return
	}

	loc := models.SearchedLocation{
		Name:      name,
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
	}
	locations := h.history.AddRecentLocation(r.Context(), loc)

	applied := parseBoolQueryParam(r, "apply", false)
	if applied {
		h.ctrl.SetUserLocation(loc.Coordinate())
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"locations": locations,
		"count":     len(locations),
		"applied":   applied,
	})
}
