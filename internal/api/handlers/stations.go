package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/randytsao24/bizi/internal/alerts"
	"github.com/randytsao24/bizi/internal/bizi"
	"github.com/randytsao24/bizi/internal/location"
	"github.com/randytsao24/bizi/internal/models"
	"github.com/randytsao24/bizi/internal/stations"
)

// stationView is a station as the list, detail and map screens show it
type stationView struct {
	models.Station
	Operative          bool     `json:"operative"`
	Bikes              int      `json:"bikes"`
	Slots              int      `json:"slots"`
	LastUpdatedDisplay string   `json:"last_updated_display"`
	Favorite           bool     `json:"favorite"`
	DistanceMeters     *float64 `json:"distance_meters,omitempty"`
	DistanceKm         *float64 `json:"distance_km,omitempty"`
}

func newStationViews(list []models.Station, st stations.State) []stationView {
	favorites := make(map[string]struct{}, len(st.Favorites))
	for _, id := range st.Favorites {
		favorites[id] = struct{}{}
	}

	views := make([]stationView, len(list))
	for i, s := range list {
		_, fav := favorites[s.ID]
		views[i] = stationView{
			Station:            s,
			Operative:          s.IsOperative(),
			Bikes:              s.Bikes(),
			Slots:              s.Slots(),
			LastUpdatedDisplay: s.FormattedLastUpdated(),
			Favorite:           fav,
		}
		if st.UserLocation == nil {
			continue
		}
		if pos, ok := s.Coordinate(); ok {
			d := location.Distance(*st.UserLocation, pos)
			km := location.MetersToKilometers(d)
			views[i].DistanceMeters = &d
			views[i].DistanceKm = &km
		}
	}
	return views
}

type StationHandler struct {
	ctrl     *stations.Controller
	searcher StationSearcher
}

func NewStationHandler(ctrl *stations.Controller, searcher StationSearcher) *StationHandler {
	return &StationHandler{ctrl: ctrl, searcher: searcher}
}

// List returns the displayed list: filtered, sorted and favorites-restricted
func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	st := h.ctrl.State()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"stations":       newStationViews(st.Stations, st),
		"count":          len(st.Stations),
		"total":          st.Total,
		"search_text":    st.SearchText,
		"sort_mode":      st.SortMode,
		"favorites_only": st.FavoritesOnly,
		"is_loading":     st.IsLoading,
		"error":          st.Error,
	})
}

// All returns every station from the last fetch, for the map view
func (h *StationHandler) All(w http.ResponseWriter, r *http.Request) {
	st := h.ctrl.State()
	all := h.ctrl.AllStations()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"stations":      newStationViews(all, st),
		"count":         len(all),
		"user_location": st.UserLocation,
	})
}

// Get returns one station for the detail view
func (h *StationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s, ok := h.ctrl.Station(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Station not found", "No station with id "+id)
		return
	}

	views := newStationViews([]models.Station{s}, h.ctrl.State())
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"station": views[0],
	})
}

// Search queries the remote API by free text
func (h *StationHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q query parameter is required", "")
		return
	}

	found, err := h.searcher.Search(r.Context(), query)
	if err != nil {
		status := http.StatusBadGateway
		if bizi.Kind(err) == "transport" {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, "Failed to search stations", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"query":    query,
		"stations": newStationViews(found, h.ctrl.State()),
		"count":    len(found),
	})
}

// Refresh starts a background fetch; a fetch already in flight is not repeated
func (h *StationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !h.ctrl.StartRefresh(context.WithoutCancel(r.Context())) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   "Refresh already in progress",
			"message": "Try again once the current refresh finishes",
		})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"success": true,
		"status":  "refreshing",
	})
}

// ToggleFavorite flips a station in or out of the favorite set. A favorite
// whose station is no longer listed can still be removed.
func (h *StationHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.ctrl.Station(id); !ok && !h.ctrl.IsFavorite(id) {
		writeError(w, http.StatusNotFound, "Station not found", "No station with id "+id)
		return
	}

	favorite := h.ctrl.ToggleFavorite(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"station_id": id,
		"favorite":   favorite,
	})
}

// RecordSearch adds a station to the recent searches
func (h *StationHandler) RecordSearch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s, ok := h.ctrl.Station(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Station not found", "No station with id "+id)
		return
	}

	h.ctrl.RecordSearch(r.Context(), s)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":         true,
		"recent_searches": h.ctrl.State().RecentSearches,
	})
}

// Alerts serves out-of-service stations as a GTFS-realtime feed
func (h *StationHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	feed := alerts.Build(h.ctrl.AllStations(), time.Now())

	if r.URL.Query().Get("format") == "json" {
		summary := alerts.Summarize(feed)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"alerts":  summary,
			"count":   len(summary),
		})
		return
	}

	data, err := alerts.Marshal(feed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode alerts", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
