package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rfmkit-dev/rfmkit/internal/importer"
	"github.com/rfmkit-dev/rfmkit/internal/segment"
)

// Config represents the top-level rfmkit.yaml configuration.
type Config struct {
	Bins       int                `yaml:"bins"`
	Snapshot   string             `yaml:"snapshot,omitempty"` // "2006-01-02", empty = derive from data
	Columns    importer.Mapping   `yaml:"columns"`
	Thresholds segment.Thresholds `yaml:"thresholds"`
	Source     SourceConfig       `yaml:"source"`
	Output     OutputConfig       `yaml:"output"`
}

// SourceConfig selects where raw transactions come from.
type SourceConfig struct {
	Format string         `yaml:"format"` // "csv" or "postgres"
	Path   string         `yaml:"path,omitempty"`
	DB     DatabaseConfig `yaml:"db,omitempty"`
}

// DatabaseConfig points the postgres source at a transactions table.
// Connection credentials come from the environment, not the config file.
type DatabaseConfig struct {
	Table   string `yaml:"table"`
	EnvFile string `yaml:"env_file,omitempty"`
}

// OutputConfig controls where the segmented table and summary land.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads an rfmkit.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Bins == 0 {
		c.Bins = 5
	}
	if (c.Columns == importer.Mapping{}) {
		c.Columns = importer.DefaultMapping()
	}
	if (c.Thresholds == segment.Thresholds{}) {
		c.Thresholds = segment.DefaultThresholds(c.Bins)
	}
	if c.Source.Format == "" {
		c.Source.Format = "csv"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "reports"
	}
}

// Validate checks cross-field consistency before a run.
func (c *Config) Validate() error {
	if c.Bins < 1 {
		return fmt.Errorf("bins must be >= 1, got %d", c.Bins)
	}
	if err := c.Thresholds.Validate(c.Bins); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	switch c.Source.Format {
	case "csv", "postgres":
	default:
		return fmt.Errorf("unknown source format %q", c.Source.Format)
	}
	if c.Snapshot != "" {
		if _, err := time.Parse("2006-01-02", c.Snapshot); err != nil {
			return fmt.Errorf("parsing snapshot date %q: %w", c.Snapshot, err)
		}
	}
	return nil
}

// SnapshotTime returns the configured snapshot override, or nil when the
// snapshot should be derived from the data.
func (c *Config) SnapshotTime() (*time.Time, error) {
	if c.Snapshot == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", c.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot date %q: %w", c.Snapshot, err)
	}
	return &t, nil
}
