package gtfs

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const testFeedURL = "https://example.com/gtfs.zip"

var minimalFeed = map[string]string{
	"routes.txt":     "route_id,route_short_name,route_long_name,route_type\nR1,1,First Avenue,3\n",
	"trips.txt":      "route_id,service_id,trip_id\nR1,WK,trip1\n",
	"stops.txt":      "stop_id,stop_name,stop_lat,stop_lon\nS1,Main & 1st,41.88,-87.63\n",
	"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\ntrip1,08:00:00,08:00:00,S1,1\n",
}

// buildArchive zips the given files in memory.
func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func memorySnapshot(t *testing.T, files map[string]string) *Snapshot {
	t.Helper()
	data := buildArchive(t, files)
	return &Snapshot{
		Data:      data,
		UpdatedAt: "2025-01-01T00:00:00Z",
		SourceURL: testFeedURL,
		ByteSize:  int64(len(data)),
	}
}

// fakeFetcher serves a fixed body and counts calls. When release is non-nil every
// call blocks until it is closed.
type fakeFetcher struct {
	mu      sync.Mutex
	body    []byte
	status  int
	err     error
	release chan struct{}
	calls   atomic.Int32
}

func newFakeFetcher(body []byte) *fakeFetcher {
	return &fakeFetcher{body: body, status: http.StatusOK}
}

func (f *fakeFetcher) Fetch(ctx context.Context, _ string) (*FetchResponse, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.status < 200 || f.status >= 300 {
		return &FetchResponse{StatusCode: f.status}, nil
	}
	return &FetchResponse{StatusCode: f.status, Body: f.body}, nil
}

func (f *fakeFetcher) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeFetcher) respond(status int, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = nil
	f.status = status
	f.body = body
}

var errNetwork = errors.New("connection refused")
