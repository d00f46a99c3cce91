package dispatch

import (
	"context"
	"sync"
)

// Guard suppresses sending the same notification twice across runs. Acquire
// claims key and reports false when another run already holds it; Release
// gives a claim back after a failed send so a later run can retry.
type Guard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// NopGuard claims every key: no cross-run guarantee.
type NopGuard struct{}

func (NopGuard) Acquire(context.Context, string) (bool, error) { return true, nil }

func (NopGuard) Release(context.Context, string) error { return nil }

// MemoryGuard deduplicates within one process.
type MemoryGuard struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{keys: make(map[string]struct{})}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.keys[key]; held {
		return false, nil
	}
	g.keys[key] = struct{}{}
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
	return nil
}
