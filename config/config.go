package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/nmonzon/carmind/core/maintenance"
	"github.com/nmonzon/carmind/core/model"
	"github.com/nmonzon/carmind/infra/metrics"
	"github.com/nmonzon/carmind/infra/notify"
	"github.com/nmonzon/carmind/infra/storage"
)

// Config is the process-wide configuration.
type Config struct {
	// OwnerID scopes every repository call. A single synthetic owner is
	// assumed; identity management is out of scope.
	OwnerID     string            `json:"owner_id"`
	Storage     storage.Config    `json:"storage"`
	Maintenance MaintenanceConfig `json:"maintenance"`
	Metrics     metrics.Config    `json:"metrics"`
	Notify      notify.Config     `json:"notify"`
	API         APIConfig         `json:"api"`
}

// APIConfig configures the read-only HTTP API.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// MaintenanceConfig overrides the factory interval policy per kind. Kinds
// absent from the map keep their defaults.
type MaintenanceConfig struct {
	Intervals map[string]maintenance.Interval `json:"intervals"`
}

// Policy merges the configured intervals over the factory defaults.
func (c MaintenanceConfig) Policy() maintenance.Policy {
	p := maintenance.DefaultPolicy()
	for k, iv := range c.Intervals {
		p[model.Kind(k)] = iv
	}
	return p
}

// Validate checks the configured overrides.
func (c MaintenanceConfig) Validate() error {
	for k, iv := range c.Intervals {
		if !model.Kind(k).Valid() {
			return fmt.Errorf("unknown maintenance kind %q", k)
		}
		if err := iv.Validate(); err != nil {
			return fmt.Errorf("kind %s: %w", k, err)
		}
	}
	return nil
}

// Load reads the configuration file (JSON or YAML by extension) and applies
// CARMIND_ environment overrides, then validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("CARMIND_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "carmind_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	return &cfg, cfg.finish()
}

// Default returns a memory-backed configuration used when no file is given.
func Default() *Config {
	cfg := &Config{OwnerID: "owner-local"}
	if err := cfg.finish(); err != nil {
		// defaults always validate
		panic(err)
	}
	return cfg
}

func (c *Config) finish() error {
	if c.OwnerID == "" {
		c.OwnerID = "owner-local"
	}
	c.Storage.SetDefaults()
	c.Metrics.SetDefaults()
	c.Notify.SetDefaults()
	c.API.SetDefaults()
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Maintenance.Validate(); err != nil {
		return fmt.Errorf("maintenance: %w", err)
	}
	if err := c.Notify.Validate(); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}
