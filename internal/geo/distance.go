// Package geo provides the small amount of spherical geometry the matcher
// needs: great-circle distances between stops and trip endpoints.
package geo

import (
	"math"

	"trufi/internal/domain"
)

const earthRadiusM = 6371000.0

// DistanceMeters returns the great-circle (haversine) distance between two
// coordinates, in meters.
func DistanceMeters(a, b domain.LatLng) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	la1 := a.Lat * math.Pi / 180
	la2 := b.Lat * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusM * c
}

// IsValid reports whether a coordinate is finite and within WGS 84 bounds.
func IsValid(p domain.LatLng) bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
