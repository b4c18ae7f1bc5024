package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"nearby.onebusaway.org/internal/app"
	"nearby.onebusaway.org/internal/clock"
	"nearby.onebusaway.org/internal/gtfs"
	"nearby.onebusaway.org/internal/logging"
	"nearby.onebusaway.org/internal/restapi"
	"nearby.onebusaway.org/internal/webui"
)

const (
	downloadTimeout = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func newApplication(cfg config, logger *slog.Logger) *app.Application {
	clk := clock.RealClock{}
	gtfsConfig := cfg.gtfsConfig()
	fetcher := gtfs.NewHTTPFetcher(downloadTimeout, logger)

	return &app.Application{
		Config:      cfg.appConfig(),
		GtfsConfig:  gtfsConfig,
		Logger:      logger,
		GtfsManager: gtfs.NewManager(gtfsConfig, fetcher, clk, logger),
		Clock:       clk,
	}
}

// routes builds the complete HTTP handler of the server.
func routes(api *restapi.RestAPI, webUI *webui.WebUI) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	webUI.SetWebUIRoutes(router)
	return api.WithMiddleware(router)
}

// run serves HTTP until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, application *app.Application, cfg config) error {
	logger := application.Logger

	api := restapi.NewRestAPI(application)
	defer api.Shutdown()
	webUI := &webui.WebUI{Application: application}

	// the server accepts requests while the first index is built; queries that
	// arrive meanwhile join the same build
	go func() {
		if err := application.GtfsManager.Warm(ctx); err != nil {
			logging.LogError(logger, "initial GTFS load failed", err,
				slog.String("source", cfg.gtfsURL))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.port),
		Handler:      routes(api, webUI),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: time.Minute,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("env", application.Config.Env.String()),
			slog.String("gtfs_url", cfg.gtfsURL),
			slog.String("cache_dir", cfg.cacheDir))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
