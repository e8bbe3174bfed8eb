// Package nodestate stores the one piece of core state that survives a
// session: the per-node remap instance count. Confirmation flags, previews
// and in-flight markers are session-local and never reach this store.
package nodestate

import (
	"context"
	"sync"
)

// DefaultInstanceCount is used for nodes with no stored count.
const DefaultInstanceCount = 1

// Store persists per-node instance counts.
type Store interface {
	// InstanceCount returns the stored count for nodeID, or
	// DefaultInstanceCount when none is stored.
	InstanceCount(ctx context.Context, nodeID string) (int, error)

	// SetInstanceCount stores the count for nodeID. Counts below 1 clamp
	// to 1.
	SetInstanceCount(ctx context.Context, nodeID string, count int) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore is the in-memory Store for tests and single-shot CLI runs.
type MemoryStore struct {
	mu     sync.RWMutex
	counts map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int)}
}

// InstanceCount returns the stored count or the default.
func (s *MemoryStore) InstanceCount(_ context.Context, nodeID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.counts[nodeID]; ok {
		return n, nil
	}
	return DefaultInstanceCount, nil
}

// SetInstanceCount stores the count for nodeID.
func (s *MemoryStore) SetInstanceCount(_ context.Context, nodeID string, count int) error {
	if count < 1 {
		count = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[nodeID] = count
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
