package api

import (
	"net/http"
	"time"

	"github.com/randytsao24/bizi/internal/api/handlers"
	"github.com/randytsao24/bizi/internal/stations"
)

const requestTimeout = 15 * time.Second

// NewRouter creates and configures the HTTP router with all routes and middleware
func NewRouter(
	ctrl *stations.Controller,
	searcher handlers.StationSearcher,
	history handlers.LocationHistory,
) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(ctrl)
	rootHandler := handlers.NewRootHandler()
	stationHandler := handlers.NewStationHandler(ctrl, searcher)
	stateHandler := handlers.NewStateHandler(ctrl, history)
	eventsHandler := handlers.NewEventsHandler(ctrl)

	// Core routes
	mux.HandleFunc("GET /api", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("/", rootHandler.NotFound)

	// Station routes
	mux.HandleFunc("GET /stations", stationHandler.List)
	mux.HandleFunc("GET /stations/all", stationHandler.All)
	mux.HandleFunc("GET /stations/search", stationHandler.Search)
	mux.HandleFunc("GET /stations/alerts.pb", stationHandler.Alerts)
	mux.HandleFunc("GET /stations/{id}", stationHandler.Get)
	mux.HandleFunc("POST /stations/refresh", stationHandler.Refresh)
	mux.HandleFunc("POST /stations/{id}/favorite", stationHandler.ToggleFavorite)
	mux.HandleFunc("POST /stations/{id}/recent", stationHandler.RecordSearch)

	// List state routes
	mux.HandleFunc("GET /state", stateHandler.Get)
	mux.HandleFunc("PUT /state/search", stateHandler.SetSearch)
	mux.HandleFunc("PUT /state/sort", stateHandler.SetSort)
	mux.HandleFunc("PUT /state/location", stateHandler.SetLocation)
	mux.HandleFunc("POST /state/location/request", stateHandler.RequestLocation)
	mux.HandleFunc("DELETE /state/location", stateHandler.LocationFailed)
	mux.HandleFunc("PUT /state/favorites-only", stateHandler.SetFavoritesOnly)

	// Location search history
	mux.HandleFunc("GET /recent-locations", stateHandler.RecentLocations)
	mux.HandleFunc("POST /recent-locations", stateHandler.AddRecentLocation)

	// Apply middleware stack
	root := http.NewServeMux()
	root.Handle("/", Chain(mux,
		RequestID,
		Recovery,
		Logging,
		CORS,
		Timeout(requestTimeout),
	))
	// Streams stay open, so no request timeout here
	root.Handle("GET /events", Chain(http.HandlerFunc(eventsHandler.Stream),
		RequestID,
		Recovery,
		Logging,
		CORS,
	))

	return root
}
