package restapi

import (
	"net/http"

	"nearby.onebusaway.org/internal/gtfs"
	"nearby.onebusaway.org/internal/models"
	"nearby.onebusaway.org/internal/utils"
)

func (api *RestAPI) stopsNearbyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	queryParams := r.URL.Query()

	var fieldErrors map[string][]string
	lat, fieldErrors := utils.ParseRequiredFloatParam(queryParams, "lat", fieldErrors)
	lon, fieldErrors := utils.ParseRequiredFloatParam(queryParams, "lon", fieldErrors)
	radius, fieldErrors := utils.ParseIntParam(queryParams, "radius", gtfs.DefaultRadiusMeters, fieldErrors)
	limit, fieldErrors := utils.ParseIntParam(queryParams, "limit", gtfs.DefaultLimit, fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	if validationErrors := utils.ValidateLocationParams(lat, lon); len(validationErrors) > 0 {
		api.validationErrorResponse(w, r, validationErrors)
		return
	}

	result, err := api.GtfsManager.FindNearby(ctx, gtfs.NearbyQuery{
		Lat:          lat,
		Lng:          lon,
		RadiusMeters: radius,
		Limit:        limit,
	})
	if err != nil {
		if ctx.Err() != nil {
			// the client went away while the index was being built
			return
		}
		api.serviceUnavailableResponse(w, r, err)
		return
	}

	stops := make([]models.NearbyStop, 0, len(result.Stops))
	for _, stop := range result.Stops {
		stops = append(stops, newNearbyStopModel(stop))
	}

	api.sendResponse(w, r, models.NewOKResponse(models.NewNearbyStopsData(result.UpdatedAt, stops)))
}

func newNearbyStopModel(stop gtfs.RankedStop) models.NearbyStop {
	modes := make([]string, 0, len(stop.Modes))
	for _, mode := range stop.Modes {
		modes = append(modes, string(mode))
	}

	routes := make([]models.Route, 0, len(stop.Routes))
	for _, route := range stop.Routes {
		routes = append(routes, models.NewRoute(route.ID, route.ShortName, route.LongName, string(route.Kind)))
	}

	return models.NewNearbyStop(stop.ID, stop.Name, stop.Lat, stop.Lng, stop.DistanceMi, modes, routes)
}
