package app

import (
	"log/slog"

	"nearby.onebusaway.org/internal/appconf"
	"nearby.onebusaway.org/internal/clock"
	"nearby.onebusaway.org/internal/gtfs"
)

// Application holds the dependencies shared by the HTTP handlers, helpers
// and middleware.
type Application struct {
	Config      appconf.Config
	GtfsConfig  gtfs.Config
	Logger      *slog.Logger
	GtfsManager *gtfs.Manager
	Clock       clock.Clock
}
