package restapi

import (
	"archive/zip"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"nearby.onebusaway.org/internal/app"
	"nearby.onebusaway.org/internal/appconf"
	"nearby.onebusaway.org/internal/clock"
	"nearby.onebusaway.org/internal/gtfs"
	"nearby.onebusaway.org/internal/logging"
	"nearby.onebusaway.org/internal/models"
)

var testFeed = map[string]string{
	"routes.txt": "route_id,route_short_name,route_long_name,route_type\n" +
		"R1,1,First Avenue,3\n" +
		"BLUE,,Blue Line,1\n",
	"trips.txt": "route_id,service_id,trip_id\n" +
		"R1,WK,trip1\n" +
		"BLUE,WK,trip2\n",
	"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
		"S1,Main & 1st,41.88,-87.63\n" +
		"S2,Clark/Lake,41.8857,-87.6309\n" +
		"S3,Far Away,42.5,-88.0\n",
	"stop_times.txt": "trip_id,stop_id\n" +
		"trip1,S1\n" +
		"trip2,S1\n" +
		"trip2,S2\n",
}

var testNow = time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC)

// writeTestFeed zips files into a temporary directory and returns the archive path.
func writeTestFeed(t *testing.T, files map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "feed.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	for name, content := range files {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

// createTestApiWithSource creates a RestAPI whose manager reads the feed from source.
func createTestApiWithSource(t *testing.T, source string) *RestAPI {
	t.Helper()

	clk := clock.NewMockClock(testNow)
	logger := logging.NewDiscardLogger()
	gtfsConfig := gtfs.Config{
		GtfsURL:  source,
		CacheDir: t.TempDir(),
	}

	application := &app.Application{
		Config: appconf.Config{
			Env: appconf.EnvFlagToEnvironment("test"),
		},
		GtfsConfig:  gtfsConfig,
		Logger:      logger,
		GtfsManager: gtfs.NewManager(gtfsConfig, gtfs.NewHTTPFetcher(time.Second, logger), clk, logger),
		Clock:       clk,
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api
}

// createTestApi creates a RestAPI backed by the standard test feed.
func createTestApi(t *testing.T) *RestAPI {
	return createTestApiWithSource(t, writeTestFeed(t, testFeed))
}

func newTestServer(t *testing.T, api *RestAPI) *httptest.Server {
	t.Helper()
	router := httprouter.New()
	api.SetRoutes(router)
	server := httptest.NewServer(api.WithMiddleware(router))
	t.Cleanup(server.Close)
	return server
}

// serveApiAndRetrieveEndpoint makes a request to the specified endpoint and returns the response
// and decoded model.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()
	server := newTestServer(t, api)

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func warm(t *testing.T, api *RestAPI) {
	t.Helper()
	require.NoError(t, api.GtfsManager.Warm(context.Background()))
}
