package gtfs

import (
	"math"
	"sort"

	"nearby.onebusaway.org/internal/utils"
)

const (
	// DefaultRadiusMeters is used by callers when the request names no radius.
	DefaultRadiusMeters = 800
	// DefaultLimit is used by callers when the request names no limit.
	DefaultLimit = 10

	MinRadiusMiles = 0.1
	MaxLimit       = 50

	// widens the search box so rounding never drops a stop sitting on the radius
	boxSlack = 1e-6
)

type NearbyQuery struct {
	Lat          float64
	Lng          float64
	RadiusMeters int
	Limit        int
}

// RankedStop is a stop within the query radius, with its serving routes attached.
type RankedStop struct {
	Stop
	DistanceMi float64
	Modes      []RouteKind
	Routes     []Route
}

type NearbyResult struct {
	UpdatedAt string
	Stops     []RankedStop
}

// FindNearby returns the stops of idx within the query radius, nearest first.
// Stops at equal distance keep their stops.txt order. The radius is never smaller
// than MinRadiusMiles and the limit is clamped to [1, MaxLimit].
func FindNearby(idx *Index, q NearbyQuery) NearbyResult {
	radiusMi := math.Max(utils.MetersToMiles(float64(q.RadiusMeters)), MinRadiusMiles)
	limit := clampLimit(q.Limit)

	type candidate struct {
		position int
		distance float64
	}

	minLat, minLng, maxLat, maxLng := boundingBox(q.Lat, q.Lng, radiusMi)

	var candidates []candidate
	for _, position := range idx.stopsWithin(minLat, minLng, maxLat, maxLng) {
		stop := idx.Stops[position]
		distance := utils.Haversine(q.Lat, q.Lng, stop.Lat, stop.Lng)
		if distance > radiusMi {
			continue
		}
		candidates = append(candidates, candidate{position, distance})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].position < candidates[j].position
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	stops := make([]RankedStop, 0, len(candidates))
	for _, c := range candidates {
		stop := idx.Stops[c.position]
		routes := idx.RoutesForStop(stop.ID)
		stops = append(stops, RankedStop{
			Stop:       stop,
			DistanceMi: c.distance,
			Modes:      modesOf(routes),
			Routes:     routes,
		})
	}

	return NearbyResult{
		UpdatedAt: idx.UpdatedAt,
		Stops:     stops,
	}
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func modesOf(routes []Route) []RouteKind {
	modes := make([]RouteKind, 0, 2)
	for _, route := range routes {
		seen := false
		for _, mode := range modes {
			if mode == route.Kind {
				seen = true
				break
			}
		}
		if !seen {
			modes = append(modes, route.Kind)
		}
	}
	return modes
}

// boundingBox returns a lat/lng box that contains every point within radiusMi of
// (lat, lng). Near the poles, or when the box would cross the antimeridian, it spans
// all longitudes.
func boundingBox(lat, lng, radiusMi float64) (minLat, minLng, maxLat, maxLng float64) {
	angular := radiusMi / utils.EarthRadiusMiles
	latDelta := angular*180/math.Pi*(1+boxSlack) + boxSlack

	minLat = lat - latDelta
	maxLat = lat + latDelta
	if minLat <= -90 || maxLat >= 90 {
		return math.Max(minLat, -90), -180, math.Min(maxLat, 90), 180
	}

	ratio := math.Sin(angular) / math.Cos(lat*math.Pi/180)
	if ratio >= 1 {
		return minLat, -180, maxLat, 180
	}

	lngDelta := math.Asin(ratio)*180/math.Pi*(1+boxSlack) + boxSlack
	minLng = lng - lngDelta
	maxLng = lng + lngDelta
	if minLng < -180 || maxLng > 180 {
		return minLat, -180, maxLat, 180
	}

	return minLat, minLng, maxLat, maxLng
}
