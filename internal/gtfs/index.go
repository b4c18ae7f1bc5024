package gtfs

import (
	"math"
	"time"

	"github.com/tidwall/rtree"
)

// MaxRoutesPerStop caps how many distinct routes are recorded for a single stop.
const MaxRoutesPerStop = 12

// RouteKind is the coarse vehicle category reported to clients.
type RouteKind string

const (
	RouteKindBus   RouteKind = "bus"
	RouteKindTrain RouteKind = "train"
	RouteKindRail  RouteKind = "rail"
	RouteKindOther RouteKind = "other"
)

// routeKindFromType maps a GTFS route_type code to a RouteKind.
func routeKindFromType(routeType int) RouteKind {
	switch routeType {
	case 3:
		return RouteKindBus
	case 1:
		return RouteKindTrain
	case 2:
		return RouteKindRail
	default:
		return RouteKindOther
	}
}

type Route struct {
	ID        string
	ShortName string
	LongName  string
	Kind      RouteKind
}

type Stop struct {
	ID           string
	Name         string
	Lat          float64
	Lng          float64
	LocationKind int
}

// Index is the joined, read-only view of one snapshot. It is never modified after
// BuildIndex returns, so it may be shared between goroutines without locking.
type Index struct {
	UpdatedAt    string
	DownloadedAt time.Time
	SourceURL    string

	Stops      []Stop
	Routes     map[string]Route
	StopRoutes map[string][]string

	// tree holds each stop's position in Stops, keyed by [lat, lng] with lng
	// wrapped into [-180, 180]
	tree rtree.RTreeG[int]
}

func newIndex(snapshot *Snapshot, stops []Stop, routes map[string]Route, stopRoutes map[string][]string) *Index {
	idx := &Index{
		UpdatedAt:    snapshot.UpdatedAt,
		DownloadedAt: snapshot.DownloadedAt,
		SourceURL:    snapshot.SourceURL,
		Stops:        stops,
		Routes:       routes,
		StopRoutes:   stopRoutes,
	}

	for i, stop := range stops {
		point := [2]float64{stop.Lat, normalizeLongitude(stop.Lng)}
		idx.tree.Insert(point, point, i)
	}

	return idx
}

// RoutesForStop resolves the stop's recorded route ids, in the order they were first
// seen in stop_times.txt.
func (idx *Index) RoutesForStop(stopID string) []Route {
	ids := idx.StopRoutes[stopID]
	routes := make([]Route, 0, len(ids))
	for _, id := range ids {
		if route, ok := idx.Routes[id]; ok {
			routes = append(routes, route)
		}
		if len(routes) == MaxRoutesPerStop {
			break
		}
	}
	return routes
}

// stopsWithin returns the positions in Stops of every stop inside the box.
func (idx *Index) stopsWithin(minLat, minLng, maxLat, maxLng float64) []int {
	var positions []int
	idx.tree.Search(
		[2]float64{minLat, minLng},
		[2]float64{maxLat, maxLng},
		func(_, _ [2]float64, position int) bool {
			positions = append(positions, position)
			return true
		},
	)
	return positions
}

// normalizeLongitude wraps lng into [-180, 180]. Feeds occasionally publish
// longitudes in [0, 360).
func normalizeLongitude(lng float64) float64 {
	if lng >= -180 && lng <= 180 {
		return lng
	}
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}
