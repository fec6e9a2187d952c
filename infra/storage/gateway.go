package storage

import (
	"fmt"

	corestorage "github.com/nmonzon/carmind/core/storage"
)

// Gateway mirrors the core storage gateway interface.
type Gateway = corestorage.Gateway

// ErrUnavailable mirrors the core sentinel for an unreachable medium.
var ErrUnavailable = corestorage.ErrUnavailable

// Key mirrors the core key scheme.
func Key(entity, ownerID string) string { return corestorage.Key(entity, ownerID) }

// Config selects and parameterizes the gateway backend.
type Config struct {
	// Backend is one of "memory", "file" or "sqlite".
	Backend string `json:"backend"`
	// Path is the data directory for the file backend or the database file
	// for the sqlite backend.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Path == "" && c.Backend == "sqlite" {
		c.Path = "carmind.db"
	}
	if c.Path == "" && c.Backend == "file" {
		c.Path = "data"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "memory":
		return nil
	case "file", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("path is required for backend %s", c.Backend)
		}
		return nil
	}
	return fmt.Errorf("unknown backend %s", c.Backend)
}

// New creates a Gateway from the configuration.
func New(cfg Config) (Gateway, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryGateway(), nil
	case "file":
		return NewFileGateway(cfg.Path)
	case "sqlite":
		return NewSQLiteGateway(cfg.Path)
	}
	return nil, fmt.Errorf("unknown backend %s", cfg.Backend)
}
