package gtfs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"nearby.onebusaway.org/internal/clock"
	"nearby.onebusaway.org/internal/logging"
)

const refreshKey = "index"

// Manager owns the current Index and rebuilds it when it goes stale. At most one
// refresh runs at a time; callers arriving while it runs wait for its result.
type Manager struct {
	config    Config
	snapshots *SnapshotCache
	fetcher   Fetcher
	clock     clock.Clock
	logger    *slog.Logger

	refreshGroup singleflight.Group

	mu        sync.RWMutex
	index     *Index
	checkedAt time.Time
	lastErr   error
}

// Status summarises the manager's state for health checks and debugging.
type Status struct {
	Ready      bool      `json:"ready"`
	SourceURL  string    `json:"sourceUrl"`
	UpdatedAt  string    `json:"updatedAt,omitempty"`
	StopCount  int       `json:"stopCount"`
	RouteCount int       `json:"routeCount"`
	CheckedAt  time.Time `json:"checkedAt"`
	LastError  string    `json:"lastError,omitempty"`
}

func NewManager(config Config, fetcher Fetcher, clk clock.Clock, logger *slog.Logger) *Manager {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Manager{
		config:    config,
		snapshots: NewSnapshotCache(config, clk, logger),
		fetcher:   fetcher,
		clock:     clk,
		logger:    logger,
	}
}

// GetIndex returns the current index, refreshing it first once the snapshot it was
// built from is older than the TTL.
// A cancelled ctx stops the wait but not a refresh already under way.
func (manager *Manager) GetIndex(ctx context.Context) (*Index, error) {
	if idx := manager.freshIndex(); idx != nil {
		return idx, nil
	}

	ch := manager.refreshGroup.DoChan(refreshKey, func() (interface{}, error) {
		return manager.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Index), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FindNearby answers a proximity query against the current index.
func (manager *Manager) FindNearby(ctx context.Context, q NearbyQuery) (NearbyResult, error) {
	idx, err := manager.GetIndex(ctx)
	if err != nil {
		return NearbyResult{}, err
	}
	return FindNearby(idx, q), nil
}

// Warm loads the index eagerly, typically once at startup.
func (manager *Manager) Warm(ctx context.Context) error {
	_, err := manager.GetIndex(ctx)
	return err
}

func (manager *Manager) Status() Status {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	status := Status{
		Ready:     manager.index != nil,
		SourceURL: manager.config.GtfsURL,
		CheckedAt: manager.checkedAt,
	}
	if manager.index != nil {
		status.UpdatedAt = manager.index.UpdatedAt
		status.StopCount = len(manager.index.Stops)
		status.RouteCount = len(manager.index.Routes)
	}
	if manager.lastErr != nil {
		status.LastError = manager.lastErr.Error()
	}
	return status
}

// CurrentIndex returns the held index without checking its age. It is nil before the first build.
func (manager *Manager) CurrentIndex() *Index {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.index
}

// CachedSnapshot returns the snapshot recorded in the cache directory, whatever its age.
func (manager *Manager) CachedSnapshot() (*Snapshot, error) {
	return manager.snapshots.Cached()
}

func (manager *Manager) freshIndex() *Index {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	// age counts from the download, so a restarted process does not extend the TTL
	if manager.index == nil || manager.clock.Now().Sub(manager.index.DownloadedAt) >= manager.config.ttl() {
		return nil
	}
	return manager.index
}

func (manager *Manager) refresh(ctx context.Context) (*Index, error) {
	snapshot, err := manager.snapshots.EnsureSnapshot(ctx, manager.fetcher)
	if err != nil {
		manager.recordFailure(err)
		return nil, err
	}

	started := time.Now()
	idx, err := BuildIndex(snapshot)
	if err != nil {
		manager.recordFailure(err)
		return nil, err
	}
	manager.publish(idx)

	logging.LogOperation(manager.logger, "gtfs_index_built",
		slog.String("source", snapshot.SourceURL),
		slog.String("updated_at", idx.UpdatedAt),
		slog.Int("stops_count", len(idx.Stops)),
		slog.Int("routes_count", len(idx.Routes)),
		slog.Int("served_stops_count", len(idx.StopRoutes)),
		slog.Duration("duration", time.Since(started)))

	if manager.config.Verbose {
		manager.logFeedStatistics(snapshot)
	}

	return idx, nil
}

func (manager *Manager) publish(idx *Index) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.index = idx
	manager.checkedAt = manager.clock.Now()
	manager.lastErr = nil
}

func (manager *Manager) recordFailure(err error) {
	manager.mu.Lock()
	manager.lastErr = err
	manager.mu.Unlock()

	logging.LogError(manager.logger, "failed to refresh GTFS index", err,
		slog.String("source", manager.config.GtfsURL),
		slog.String("component", "gtfs_manager"))
}

func (manager *Manager) logFeedStatistics(snapshot *Snapshot) {
	stats, err := FeedStatistics(snapshot)
	if err != nil {
		manager.logger.Warn("feed statistics unavailable", slog.String("error", err.Error()))
		return
	}
	manager.logger.Debug("gtfs feed statistics",
		slog.Int("agencies", stats.Agencies),
		slog.Int("routes", stats.Routes),
		slog.Int("stops", stats.Stops),
		slog.Int("trips", stats.Trips),
		slog.Int("services", stats.Services),
		slog.Int("warnings", stats.Warnings))
}
