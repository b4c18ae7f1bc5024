package models

// Route is a route serving a nearby stop. Type is the coarse vehicle kind
// (bus, train, rail or other), not the raw GTFS route_type code.
type Route struct {
	ID        string `json:"id"`
	ShortName string `json:"shortName"`
	LongName  string `json:"longName"`
	Type      string `json:"type"`
}

func NewRoute(id, shortName, longName, routeType string) Route {
	return Route{
		ID:        id,
		ShortName: shortName,
		LongName:  longName,
		Type:      routeType,
	}
}
