package appconf

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML configuration file. Zero values mean "not set";
// command-line flags given explicitly take precedence over anything here.
type FileConfig struct {
	Server ServerFileConfig `yaml:"server"`
	GTFS   GTFSFileConfig   `yaml:"gtfs"`
}

type ServerFileConfig struct {
	Port      int    `yaml:"port" validate:"omitempty,min=1,max=65535"`
	Env       string `yaml:"env" validate:"omitempty,oneof=development staging test production"`
	RateLimit int    `yaml:"rateLimit" validate:"omitempty,min=1"`
}

type GTFSFileConfig struct {
	URL      string        `yaml:"url" validate:"omitempty"`
	CacheDir string        `yaml:"cacheDir" validate:"omitempty"`
	TTL      time.Duration `yaml:"ttl" validate:"omitempty,min=1m"`
	Verbose  bool          `yaml:"verbose"`
}

// LoadFile reads and validates a YAML configuration file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	if err := v.Struct(cfg.GTFS); err != nil {
		return nil, fmt.Errorf("invalid gtfs config: %w", err)
	}

	return &cfg, nil
}
