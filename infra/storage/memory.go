package storage

import (
	"context"
	"sync"
)

// MemoryGateway stores collections in memory for tests or ephemeral usage.
type MemoryGateway struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailNext forces the next call to fail with ErrUnavailable. Used by
	// tests to simulate an unreachable medium.
	FailNext bool
}

// NewMemoryGateway returns an empty MemoryGateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{data: map[string][]byte{}}
}

func (g *MemoryGateway) fail() bool {
	if g.FailNext {
		g.FailNext = false
		return true
	}
	return false
}

func (g *MemoryGateway) Save(_ context.Context, entity, ownerID string, data []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail() {
		return ErrUnavailable
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	g.data[Key(entity, ownerID)] = cp
	return nil
}

func (g *MemoryGateway) Load(_ context.Context, entity, ownerID string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail() {
		return nil, ErrUnavailable
	}
	b, ok := g.data[Key(entity, ownerID)]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (g *MemoryGateway) Remove(_ context.Context, entity, ownerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail() {
		return ErrUnavailable
	}
	delete(g.data, Key(entity, ownerID))
	return nil
}
