package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileGateway persists each collection as one JSON blob file under a
// directory. Suitable for a single-user, single-process deployment.
type FileGateway struct {
	dir string
	mu  sync.Mutex
}

// NewFileGateway ensures the directory exists and returns the gateway.
func NewFileGateway(dir string) (*FileGateway, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &FileGateway{dir: dir}, nil
}

func (g *FileGateway) path(entity, ownerID string) string {
	return filepath.Join(g.dir, Key(entity, ownerID)+".json")
}

func (g *FileGateway) Save(_ context.Context, entity, ownerID string, data []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := os.WriteFile(g.path(entity, ownerID), data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (g *FileGateway) Load(_ context.Context, entity, ownerID string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, err := os.ReadFile(g.path(entity, ownerID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return b, nil
}

func (g *FileGateway) Remove(_ context.Context, entity, ownerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	err := os.Remove(g.path(entity, ownerID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
