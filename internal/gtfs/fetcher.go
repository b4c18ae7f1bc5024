package gtfs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"nearby.onebusaway.org/internal/logging"
)

// Fetcher retrieves the raw bytes of the feed archive.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResponse, error)
}

// FetchResponse is the outcome of a completed request.
type FetchResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *FetchResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTTPFetcher fetches archives over HTTP. Sources that are not http(s) URLs are
// read from the local filesystem.
type HTTPFetcher struct {
	client *http.Client
	logger *slog.Logger
}

func NewHTTPFetcher(timeout time.Duration, logger *slog.Logger) *HTTPFetcher {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*FetchResponse, error) {
	if isLocalSource(url) {
		b, err := os.ReadFile(url)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return &FetchResponse{StatusCode: http.StatusOK, Body: b}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating GTFS request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, f.logger, "gtfs_download_body")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &FetchResponse{StatusCode: resp.StatusCode}, nil
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	return &FetchResponse{StatusCode: resp.StatusCode, Body: b}, nil
}
