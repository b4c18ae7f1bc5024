package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// rateLimited applies the per-client limiter when one is configured.
func (api *RestAPI) rateLimited(handler http.HandlerFunc) http.Handler {
	if api.rateLimiter == nil {
		return handler
	}
	return api.rateLimiter.Handler(handler)
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/where/stops-nearby.json", api.rateLimited(api.stopsNearbyHandler))
	router.Handler(http.MethodGet, "/api/where/current-time.json", api.rateLimited(api.currentTimeHandler))
	router.HandlerFunc(http.MethodGet, "/healthz", api.healthHandler)

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}

// WithMiddleware wraps the router with the middleware every response goes through.
// Request logging is outermost so that it sees the final status code.
func (api *RestAPI) WithMiddleware(handler http.Handler) http.Handler {
	handler = CompressionMiddleware(handler)
	handler = api.WithSecurityHeaders(handler)
	return NewRequestLoggingMiddleware(api.Logger)(handler)
}
