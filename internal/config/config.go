// Package config handles the geogtool configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	geography "github.com/tingold/orb-geography"

	"gopkg.in/yaml.v3"
)

// Output formats understood by the decode command.
const (
	FormatGeoJSON = "geojson"
	FormatWKT     = "wkt"
	FormatEWKT    = "ewkt"
)

// Config represents the root configuration file structure.
type Config struct {
	// SRID stamped on encoded values. Omit or set null for no SRID.
	SRID   *int32 `yaml:"srid"`
	Format string `yaml:"format,omitempty"`
	Layer  Layer  `yaml:"layer,omitempty"`
}

// Layer holds FlatGeobuf export metadata.
type Layer struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	NoIndex     bool   `yaml:"no_index,omitempty"`
}

// Default returns the configuration used when no file is given: WGS84 and
// GeoJSON output.
func Default() *Config {
	srid := int32(4326)
	return &Config{
		SRID:   &srid,
		Format: FormatGeoJSON,
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Missing keys keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the output format.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatGeoJSON, FormatWKT, FormatEWKT:
		return nil
	case "":
		return errors.New("format is empty")
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
}

// SpatialRef returns the configured SRID.
func (c *Config) SpatialRef() geography.SRID {
	if c.SRID == nil {
		return geography.SRID{}
	}
	return geography.NewSRID(*c.SRID)
}
