package gtfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"nearby.onebusaway.org/internal/clock"
	"nearby.onebusaway.org/internal/logging"
)

const (
	archiveFileName  = "gtfs.zip"
	metadataFileName = "gtfs.meta.json"
)

// Snapshot is a downloaded feed archive plus the metadata recorded when it was fetched.
// Data holds the archive bytes when the snapshot was fetched in this process; a snapshot
// restored from disk leaves Data nil and is read from ArchivePath.
type Snapshot struct {
	ArchivePath  string
	Data         []byte
	DownloadedAt time.Time
	UpdatedAt    string
	SourceURL    string
	ByteSize     int64
}

// snapshotMetadata is the JSON sidecar stored next to the archive.
type snapshotMetadata struct {
	DownloadedAt int64  `json:"downloadedAt"`
	UpdatedAt    string `json:"updatedAt"`
	URL          string `json:"url"`
	Bytes        int64  `json:"bytes"`
}

// SnapshotCache keeps the most recent archive on disk and refetches it once the TTL has elapsed.
type SnapshotCache struct {
	sourceURL string
	dir       string
	ttl       time.Duration
	clock     clock.Clock
	logger    *slog.Logger
}

func NewSnapshotCache(config Config, clk clock.Clock, logger *slog.Logger) *SnapshotCache {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &SnapshotCache{
		sourceURL: config.GtfsURL,
		dir:       config.CacheDir,
		ttl:       config.ttl(),
		clock:     clk,
		logger:    logger,
	}
}

func (c *SnapshotCache) ArchivePath() string {
	return filepath.Join(c.dir, archiveFileName)
}

func (c *SnapshotCache) MetadataPath() string {
	return filepath.Join(c.dir, metadataFileName)
}

// EnsureSnapshot returns the cached snapshot while it is fresh, and otherwise downloads
// and persists a new one.
func (c *SnapshotCache) EnsureSnapshot(ctx context.Context, fetcher Fetcher) (*Snapshot, error) {
	if snapshot, ok := c.cached(); ok {
		return snapshot, nil
	}
	return c.refresh(ctx, fetcher)
}

// Cached returns the snapshot recorded on disk regardless of its age.
func (c *SnapshotCache) Cached() (*Snapshot, error) {
	meta, err := c.readMetadata()
	if err != nil {
		return nil, err
	}
	return c.snapshotFromMetadata(meta), nil
}

func (c *SnapshotCache) cached() (*Snapshot, bool) {
	meta, err := c.readMetadata()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("ignoring unreadable snapshot metadata",
				slog.String("path", c.MetadataPath()),
				slog.String("error", err.Error()))
		}
		return nil, false
	}

	if meta.URL != c.sourceURL {
		return nil, false
	}

	if c.clock.Now().Sub(time.UnixMilli(meta.DownloadedAt)) >= c.ttl {
		return nil, false
	}

	if _, err := os.Stat(c.ArchivePath()); err != nil {
		return nil, false
	}

	return c.snapshotFromMetadata(meta), true
}

func (c *SnapshotCache) snapshotFromMetadata(meta snapshotMetadata) *Snapshot {
	return &Snapshot{
		ArchivePath:  c.ArchivePath(),
		DownloadedAt: time.UnixMilli(meta.DownloadedAt),
		UpdatedAt:    meta.UpdatedAt,
		SourceURL:    meta.URL,
		ByteSize:     meta.Bytes,
	}
}

func (c *SnapshotCache) refresh(ctx context.Context, fetcher Fetcher) (*Snapshot, error) {
	started := time.Now()

	resp, err := fetcher.Fetch(ctx, c.sourceURL)
	if err != nil {
		return nil, &DownloadError{URL: c.sourceURL, Err: err}
	}
	if !resp.OK() {
		return nil, &DownloadError{URL: c.sourceURL, StatusCode: resp.StatusCode}
	}

	now := c.clock.Now()
	snapshot := &Snapshot{
		ArchivePath:  c.ArchivePath(),
		Data:         resp.Body,
		DownloadedAt: now,
		UpdatedAt:    now.UTC().Format(time.RFC3339),
		SourceURL:    c.sourceURL,
		ByteSize:     int64(len(resp.Body)),
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating GTFS cache directory: %w", err)
	}

	if err := writeFileAtomic(c.ArchivePath(), resp.Body, c.logger); err != nil {
		return nil, fmt.Errorf("error writing GTFS archive: %w", err)
	}

	meta := snapshotMetadata{
		DownloadedAt: now.UnixMilli(),
		UpdatedAt:    snapshot.UpdatedAt,
		URL:          c.sourceURL,
		Bytes:        snapshot.ByteSize,
	}
	if err := c.writeMetadata(meta); err != nil {
		// the archive is already in memory, so this fetch is still usable
		logging.LogError(c.logger, "failed to persist snapshot metadata", err,
			slog.String("path", c.MetadataPath()),
			slog.String("component", "snapshot_cache"))
	}

	logging.LogOperation(c.logger, "gtfs_snapshot_downloaded",
		slog.String("url", c.sourceURL),
		slog.Int64("bytes", snapshot.ByteSize),
		slog.Duration("duration", time.Since(started)))

	return snapshot, nil
}

func (c *SnapshotCache) readMetadata() (snapshotMetadata, error) {
	var meta snapshotMetadata

	b, err := os.ReadFile(c.MetadataPath())
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		return meta, fmt.Errorf("error decoding snapshot metadata: %w", err)
	}
	return meta, nil
}

func (c *SnapshotCache) writeMetadata(meta snapshotMetadata) error {
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return writeFileAtomic(c.MetadataPath(), b, c.logger)
}

// writeFileAtomic writes data to a temporary file next to path and renames it into place.
func writeFileAtomic(path string, data []byte, logger *slog.Logger) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	err = func() (err error) {
		defer logging.HandleDeferredError(&err, tmp.Close, logger, "close_"+filepath.Base(path))
		_, err = tmp.Write(data)
		return err
	}()
	if err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
