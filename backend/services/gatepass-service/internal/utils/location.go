package utils

import (
	"github.com/umahmood/haversine"
)

const metersPerKilometer = 1000.0

// DistanceMeters is the great-circle distance between two points.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := haversine.Coord{Lat: lat1, Lon: lon1}
	p2 := haversine.Coord{Lat: lat2, Lon: lon2}
	_, km := haversine.Distance(p1, p2)
	return km * metersPerKilometer
}

// WithinRadius reports whether the scanner at (lat, lng) is close enough to
// the premise at (plat, plng).
func WithinRadius(lat, lng, plat, plng, radiusMeters float64) bool {
	return DistanceMeters(lat, lng, plat, plng) <= radiusMeters
}
