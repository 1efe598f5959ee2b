// Package location handles distance calculations between stations and the user
package location

import (
	"github.com/golang/geo/s2"

	"github.com/randytsao24/bizi/internal/models"
)

const earthRadiusMeters = 6371000

// Haversine calculates the great-circle distance in meters between two lat/lng points
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}

// Distance returns meters between two coordinates
func Distance(a, b models.Coordinate) float64 {
	return Haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// MetersToKilometers converts meters to kilometers
func MetersToKilometers(meters float64) float64 {
	return meters / 1000
}
