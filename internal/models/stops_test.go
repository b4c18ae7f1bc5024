package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNearbyStopsData(t *testing.T) {
	t.Run("null updatedAt and empty stops", func(t *testing.T) {
		data := NewNearbyStopsData("", nil)

		b, err := json.Marshal(data)
		require.NoError(t, err)
		assert.JSONEq(t, `{"updatedAt":null,"stops":[]}`, string(b))
	})

	t.Run("populated", func(t *testing.T) {
		stop := NewNearbyStop("S1", "Main & 1st", 41.88, -87.63, 0.25,
			[]string{"bus"}, []Route{NewRoute("R1", "1", "First Avenue", "bus")})
		data := NewNearbyStopsData("2025-01-01T00:00:00Z", []NearbyStop{stop})

		b, err := json.Marshal(data)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"updatedAt": "2025-01-01T00:00:00Z",
			"stops": [{
				"id": "S1",
				"name": "Main & 1st",
				"lat": 41.88,
				"lng": -87.63,
				"distanceMi": 0.25,
				"modes": ["bus"],
				"routes": [{"id": "R1", "shortName": "1", "longName": "First Avenue", "type": "bus"}]
			}]
		}`, string(b))
	})
}

func TestNewNearbyStopNeverNullLists(t *testing.T) {
	stop := NewNearbyStop("S1", "Unserved", 0, 0, 0, nil, nil)

	b, err := json.Marshal(stop)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"modes":[]`)
	assert.Contains(t, string(b), `"routes":[]`)
}
