package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLatitude(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		wantErr bool
	}{
		{name: "valid latitude", lat: 47.6062},
		{name: "south pole", lat: -90},
		{name: "north pole", lat: 90},
		{name: "too far north", lat: 90.0001, wantErr: true},
		{name: "too far south", lat: -91, wantErr: true},
		{name: "not a number", lat: math.NaN(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLatitude(tt.lat)
			if tt.wantErr {
				assert.EqualError(t, err, "latitude must be between -90 and 90")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateLongitude(t *testing.T) {
	assert.NoError(t, ValidateLongitude(-122.3321))
	assert.NoError(t, ValidateLongitude(180))
	assert.NoError(t, ValidateLongitude(-180))
	assert.Error(t, ValidateLongitude(180.5))
	assert.Error(t, ValidateLongitude(math.NaN()))
}

func TestValidateLocationParams(t *testing.T) {
	t.Run("valid coordinates produce no errors", func(t *testing.T) {
		assert.Empty(t, ValidateLocationParams(41.88, -87.63))
	})

	t.Run("collects every invalid field", func(t *testing.T) {
		fieldErrors := ValidateLocationParams(100, -200)
		assert.Len(t, fieldErrors, 2)
		assert.Contains(t, fieldErrors, "lat")
		assert.Contains(t, fieldErrors, "lon")
	})
}
