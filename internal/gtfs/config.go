package gtfs

import (
	"strings"
	"time"
)

// DefaultTTL is how long a downloaded archive, and the index built from it, stays fresh.
const DefaultTTL = 24 * time.Hour

type Config struct {
	GtfsURL  string
	CacheDir string
	TTL      time.Duration
	Verbose  bool
}

func (config Config) ttl() time.Duration {
	if config.TTL <= 0 {
		return DefaultTTL
	}
	return config.TTL
}

func isLocalSource(source string) bool {
	return !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")
}
