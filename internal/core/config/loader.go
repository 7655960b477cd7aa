package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStart    = "Entrance"
	DefaultCapacity = 7
	DefaultLogLevel = "info"
)

// Load reads a TOML file, or YAML when the extension is .yaml or .yml.
// Sections left out fall back to the built-in facility.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode yaml %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("decode toml %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateFacility(&cfg); err != nil {
		return nil, err
	}
	if err := validateShelves(&cfg); err != nil {
		return nil, err
	}
	if err := validateBooks(&cfg); err != nil {
		return nil, err
	}
	if err := validateLogging(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	// A file that only tunes logging or capacity still gets the stock map.
	if len(cfg.Facility.Adjacency) == 0 {
		def := defaultFacility()
		cfg.Facility.Adjacency = def.Adjacency
		if len(cfg.Facility.Positions) == 0 {
			cfg.Facility.Positions = def.Positions
		}
		if len(cfg.Shelves) == 0 {
			cfg.Shelves = defaultShelves()
		}
	}
	if strings.TrimSpace(cfg.Facility.Start) == "" {
		cfg.Facility.Start = DefaultStart
	}
	if cfg.Facility.Positions == nil {
		cfg.Facility.Positions = map[string]Position{}
	}

	if cfg.Inventory.DefaultCapacity <= 0 {
		cfg.Inventory.DefaultCapacity = DefaultCapacity
	}
	if strings.TrimSpace(cfg.Logging.Level) == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
}
