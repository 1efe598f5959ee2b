// Package models defines shared data types
package models

import (
	"fmt"
	"time"
)

// InService is the estado value the city API reports for a working station
const InService = "IN_SERVICE"

// Coordinate is a WGS84 point in degrees
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.5f, %.5f", c.Latitude, c.Longitude)
}

// Geometry is the GeoJSON-style point attached to each station.
// Coordinates are ordered [lon, lat].
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Station is one bike-share dock location as returned by the city API
type Station struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Geometry            Geometry `json:"geometry"`
	Estado              string   `json:"estado"`
	BicisDisponibles    int      `json:"bicisDisponibles"`
	AnclajesDisponibles int      `json:"anclajesDisponibles"`
	LastUpdated         string   `json:"lastUpdated"`
}

// IsOperative reports whether the station is in service
func (s Station) IsOperative() bool {
	return s.Estado == InService
}

// Bikes returns the number of available bikes
func (s Station) Bikes() int { return s.BicisDisponibles }

// Slots returns the number of free docks
func (s Station) Slots() int { return s.AnclajesDisponibles }

// Coordinate returns the station position. ok is false when the geometry
// carries fewer than two values.
func (s Station) Coordinate() (Coordinate, bool) {
	if len(s.Geometry.Coordinates) < 2 {
		return Coordinate{}, false
	}
	return Coordinate{
		Latitude:  s.Geometry.Coordinates[1],
		Longitude: s.Geometry.Coordinates[0],
	}, true
}

const (
	lastUpdatedLayout = "2006-01-02T15:04:05"
	displayLayout     = "15:04:05 02-01-2006"
)

// FormattedLastUpdated renders LastUpdated for display. Values that do not
// parse are returned unchanged.
func (s Station) FormattedLastUpdated() string {
	raw := s.LastUpdated
	if len(raw) > len(lastUpdatedLayout) {
		raw = raw[:len(lastUpdatedLayout)]
	}
	t, err := time.Parse(lastUpdatedLayout, raw)
	if err != nil {
		return s.LastUpdated
	}
	return t.Format(displayLayout)
}

// Equal compares stations by identifier only
func (s Station) Equal(other Station) bool {
	return s.ID == other.ID
}

// StationsResponse is the success envelope of the stations endpoint.
// Result is a pointer so a missing field can be told apart from an empty list.
type StationsResponse struct {
	TotalCount int        `json:"totalCount"`
	Start      int        `json:"start"`
	Rows       int        `json:"rows"`
	Result     *[]Station `json:"result"`
}

// APIErrorResponse is the error envelope returned on non-200 responses
type APIErrorResponse struct {
	Status  int    `json:"status"`
	Mensaje string `json:"mensaje"`
}

// RecentSearch is a station title the user opened from the list
type RecentSearch struct {
	ID           string    `json:"id"`
	StationTitle string    `json:"station_title"`
	Date         time.Time `json:"date"`
}

// SearchedLocation is a free-text place the user looked up
type SearchedLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinate returns the searched point
func (l SearchedLocation) Coordinate() Coordinate {
	return Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}
