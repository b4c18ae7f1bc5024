package restapi

import (
	"net/http"

	"github.com/go-chi/cors"
)

// corsOptions allow any origin to read the API; it is public transit data and takes no credentials.
var corsOptions = cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	AllowedHeaders: []string{"Content-Type", "Authorization"},
	ExposedHeaders: []string{RequestIDHeader},
	MaxAge:         86400,
}

// WithSecurityHeaders wraps the given handler with security headers and CORS handling
func (api *RestAPI) WithSecurityHeaders(handler http.Handler) http.Handler {
	return cors.Handler(corsOptions)(securityHeaders(handler))
}

// securityHeaders adds essential security headers to all HTTP responses
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// the debug pages are HTML with inline styles; everything else is JSON
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none';")

		next.ServeHTTP(w, r)
	})
}
