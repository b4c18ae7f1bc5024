package utils

import "math"

const (
	// EarthRadiusMiles is the mean Earth radius used for all distance calculations.
	EarthRadiusMiles = 3958.7613
	// MetersPerMile converts statute miles to meters.
	MetersPerMile = 1609.344
)

// Haversine returns the great-circle distance in miles between two points given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)

	// rounding can push a a hair outside [0, 1] for antipodal or identical points
	a = math.Min(1, math.Max(0, a))

	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(a))
}

// MetersToMiles converts a distance in meters to miles.
func MetersToMiles(meters float64) float64 {
	return meters / MetersPerMile
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
