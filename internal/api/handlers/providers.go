package handlers

import (
	"context"

	"github.com/randytsao24/bizi/internal/models"
)

// StationSearcher abstracts the remote free-text station search for testability.
type StationSearcher interface {
	Search(ctx context.Context, query string) ([]models.Station, error)
}

// LocationHistory abstracts the recent location search store.
type LocationHistory interface {
	LoadRecentLocations(ctx context.Context) []models.SearchedLocation
	AddRecentLocation(ctx context.Context, loc models.SearchedLocation) []models.SearchedLocation
}
