package models

type NearbyStop struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	DistanceMi float64  `json:"distanceMi"`
	Modes      []string `json:"modes"`
	Routes     []Route  `json:"routes"`
}

func NewNearbyStop(id, name string, lat, lng, distanceMi float64, modes []string, routes []Route) NearbyStop {
	if modes == nil {
		modes = []string{}
	}
	if routes == nil {
		routes = []Route{}
	}
	return NearbyStop{
		ID:         id,
		Name:       name,
		Lat:        lat,
		Lng:        lng,
		DistanceMi: distanceMi,
		Modes:      modes,
		Routes:     routes,
	}
}

// NearbyStopsData is the payload of stops-nearby. UpdatedAt is null when the feed
// has no recorded update time.
type NearbyStopsData struct {
	UpdatedAt *string      `json:"updatedAt"`
	Stops     []NearbyStop `json:"stops"`
}

func NewNearbyStopsData(updatedAt string, stops []NearbyStop) NearbyStopsData {
	data := NearbyStopsData{Stops: stops}
	if data.Stops == nil {
		data.Stops = []NearbyStop{}
	}
	if updatedAt != "" {
		data.UpdatedAt = &updatedAt
	}
	return data
}
