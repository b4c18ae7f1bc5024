package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	t.Run("identical points are zero", func(t *testing.T) {
		points := [][2]float64{
			{41.88, -87.63},
			{0, 0},
			{-33.8688, 151.2093},
			{89.9, 179.9},
		}
		for _, p := range points {
			assert.Equal(t, 0.0, Haversine(p[0], p[1], p[0], p[1]))
		}
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		pairs := [][4]float64{
			{41.88, -87.63, 40.7128, -74.0060},
			{47.6062, -122.3321, 45.5152, -122.6784},
			{-33.8688, 151.2093, 51.5074, -0.1278},
			{10, 179.5, 10, -179.5},
		}
		for _, p := range pairs {
			ab := Haversine(p[0], p[1], p[2], p[3])
			ba := Haversine(p[2], p[3], p[0], p[1])
			assert.InDelta(t, ab, ba, 1e-9)
			assert.GreaterOrEqual(t, ab, 0.0)
		}
	})

	t.Run("known distances", func(t *testing.T) {
		// one degree of latitude
		assert.InDelta(t, 69.09, Haversine(0, 0, 1, 0), 0.01)
		// Chicago Loop to Manhattan
		assert.InDelta(t, 711, Haversine(41.8781, -87.6298, 40.7128, -74.0060), 2)
		// crossing the antimeridian stays short
		assert.Less(t, Haversine(0, 179.9, 0, -179.9), 14.0)
	})

	t.Run("antipodal points are half the circumference", func(t *testing.T) {
		assert.InDelta(t, EarthRadiusMiles*3.141592653589793, Haversine(0, 0, 0, 180), 1e-6)
	})
}

func TestMetersToMiles(t *testing.T) {
	assert.InDelta(t, 1.0, MetersToMiles(1609.344), 1e-12)
	assert.InDelta(t, 0.3107, MetersToMiles(500), 1e-4)
	assert.Equal(t, 0.0, MetersToMiles(0))
}
