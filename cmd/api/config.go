package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"nearby.onebusaway.org/internal/appconf"
	"nearby.onebusaway.org/internal/gtfs"
)

const (
	defaultPort    = 4000
	defaultGtfsURL = "https://www.soundtransit.org/GTFS-rail/40_gtfs.zip"
)

// config holds every setting of the server process. Values come, in increasing order
// of precedence, from built-in defaults, environment variables, the YAML config file
// and flags given on the command line.
type config struct {
	port       int
	env        string
	rateLimit  int
	gtfsURL    string
	cacheDir   string
	ttl        time.Duration
	verbose    bool
	configFile string
}

func parseConfig(args []string, getenv func(string) string) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.IntVar(&cfg.port, "port", envInt(getenv, "PORT", defaultPort), "API server port")
	fs.StringVar(&cfg.env, "env", envString(getenv, "APP_ENV", "development"), "Environment (development|staging|production)")
	fs.IntVar(&cfg.rateLimit, "rate-limit", envInt(getenv, "RATE_LIMIT", 100), "Requests per second allowed per client (0 disables limiting)")
	fs.StringVar(&cfg.gtfsURL, "gtfs-url", envString(getenv, "GTFS_URL", defaultGtfsURL), "URL or local path of a static GTFS zip file")
	fs.StringVar(&cfg.cacheDir, "cache-dir", envString(getenv, "CACHE_DIR", defaultCacheDir()), "Directory holding the downloaded GTFS archive")
	fs.DurationVar(&cfg.ttl, "ttl", gtfs.DefaultTTL, "How long a downloaded GTFS archive stays fresh")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Enable debug logging and feed statistics")
	fs.StringVar(&cfg.configFile, "config", envString(getenv, "CONFIG_FILE", ""), "Optional YAML config file")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.configFile != "" {
		fileCfg, err := appconf.LoadFile(cfg.configFile)
		if err != nil {
			return cfg, err
		}
		applyFileConfig(&cfg, fileCfg, explicitFlags(fs))
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return cfg, fmt.Errorf("invalid port %d", cfg.port)
	}
	if cfg.gtfsURL == "" {
		return cfg, fmt.Errorf("a GTFS source is required (-gtfs-url or GTFS_URL)")
	}
	if cfg.ttl <= 0 {
		return cfg, fmt.Errorf("ttl must be positive, got %s", cfg.ttl)
	}

	return cfg, nil
}

func explicitFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// applyFileConfig copies the values set in the file onto cfg, except for flags
// that were given explicitly.
func applyFileConfig(cfg *config, fileCfg *appconf.FileConfig, explicit map[string]bool) {
	if fileCfg.Server.Port != 0 && !explicit["port"] {
		cfg.port = fileCfg.Server.Port
	}
	if fileCfg.Server.Env != "" && !explicit["env"] {
		cfg.env = fileCfg.Server.Env
	}
	if fileCfg.Server.RateLimit != 0 && !explicit["rate-limit"] {
		cfg.rateLimit = fileCfg.Server.RateLimit
	}
	if fileCfg.GTFS.URL != "" && !explicit["gtfs-url"] {
		cfg.gtfsURL = fileCfg.GTFS.URL
	}
	if fileCfg.GTFS.CacheDir != "" && !explicit["cache-dir"] {
		cfg.cacheDir = fileCfg.GTFS.CacheDir
	}
	if fileCfg.GTFS.TTL != 0 && !explicit["ttl"] {
		cfg.ttl = fileCfg.GTFS.TTL
	}
	if fileCfg.GTFS.Verbose && !explicit["verbose"] {
		cfg.verbose = true
	}
}

func (cfg config) appConfig() appconf.Config {
	return appconf.Config{
		Port:      cfg.port,
		Env:       appconf.EnvFlagToEnvironment(cfg.env),
		RateLimit: cfg.rateLimit,
	}
}

func (cfg config) gtfsConfig() gtfs.Config {
	return gtfs.Config{
		GtfsURL:  cfg.gtfsURL,
		CacheDir: cfg.cacheDir,
		TTL:      cfg.ttl,
		Verbose:  cfg.verbose,
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "nearby-stops")
	}
	return filepath.Join(os.TempDir(), "nearby-stops")
}

func envString(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(getenv func(string) string, key string, fallback int) int {
	if v, err := strconv.Atoi(getenv(key)); err == nil {
		return v
	}
	return fallback
}
