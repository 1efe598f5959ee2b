package stations

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/randytsao24/bizi/internal/location"
	"github.com/randytsao24/bizi/internal/models"
)

// SortMode selects the ordering of the displayed list
type SortMode string

const (
	Alphabetical SortMode = "alphabetical"
	Distance     SortMode = "distance"
)

// ParseSortMode accepts the API names plus the Spanish labels shown in the app
func ParseSortMode(s string) (SortMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alphabetical", "alfabético", "alfabetico", "name":
		return Alphabetical, true
	case "distance", "cercanía", "cercania", "nearest":
		return Distance, true
	}
	return "", false
}

// Titles are compared the way a Spanish speaker expects ("Ávila" next to "Avenida")
var titleLanguage = language.Spanish

// Filter keeps stations whose title contains text, ignoring case.
// An empty text returns the list unchanged.
func Filter(list []models.Station, text string) []models.Station {
	if text == "" {
		result := make([]models.Station, len(list))
		copy(result, list)
		return result
	}

	folder := cases.Fold()
	needle := folder.String(text)

	result := make([]models.Station, 0, len(list))
	for _, s := range list {
		if strings.Contains(folder.String(s.Title), needle) {
			result = append(result, s)
		}
	}
	return result
}

// Sort returns a sorted copy of list. Distance without a user location falls
// back to alphabetical order.
func Sort(list []models.Station, mode SortMode, userLocation *models.Coordinate) []models.Station {
	result := make([]models.Station, len(list))
	copy(result, list)

	col := collate.New(titleLanguage)
	byTitle := func(a, b models.Station) int {
		if c := col.CompareString(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	}

	if mode != Distance || userLocation == nil {
		sort.SliceStable(result, func(i, j int) bool {
			return byTitle(result[i], result[j]) < 0
		})
		return result
	}

	type ranked struct {
		station  models.Station
		distance float64
	}
	entries := make([]ranked, len(result))
	for i, s := range result {
		entries[i] = ranked{station: s, distance: distanceTo(*userLocation, s)}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].distance != entries[j].distance {
			return entries[i].distance < entries[j].distance
		}
		return byTitle(entries[i].station, entries[j].station) < 0
	})
	for i, e := range entries {
		result[i] = e.station
	}
	return result
}

// distanceTo returns meters from c to the station; stations without a
// position sort last
func distanceTo(c models.Coordinate, s models.Station) float64 {
	pos, ok := s.Coordinate()
	if !ok {
		return math.Inf(1)
	}
	return location.Distance(c, pos)
}

// OnlyFavorites keeps the stations whose ID is in favorites, preserving order
func OnlyFavorites(list []models.Station, favorites map[string]struct{}) []models.Station {
	result := make([]models.Station, 0, len(favorites))
	for _, s := range list {
		if _, ok := favorites[s.ID]; ok {
			result = append(result, s)
		}
	}
	return result
}
