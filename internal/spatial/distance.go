package spatial

import "github.com/golang/geo/s2"

// EarthRadiusMeters is the Earth's mean radius
const EarthRadiusMeters = 6371000.0

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// LatLngValid reports whether a coordinate pair is a usable position.
// Strava reports missing endpoints as an empty array, which decodes to 0,0.
func LatLngValid(lat, lon float64) bool {
	if lat == 0 && lon == 0 {
		return false
	}
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}
