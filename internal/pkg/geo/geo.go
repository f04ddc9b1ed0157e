// Package geo provides great-circle distance math for discovery filtering.
package geo

import "math"

const earthRadiusKM = 6371

// DistanceKM returns the haversine distance in kilometers between two
// coordinate pairs.
func DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
