// Package session holds per-editing-session instance state: user
// confirmations and locally synthesized previews. This state is ephemeral
// and lives beside the payload registry rather than inside it, so a
// structural change can drop a node's session state without touching
// published payloads.
package session

import (
	"fmt"
	"sync"
)

// InstanceState is the session-scoped state of one mapping instance.
type InstanceState struct {
	// Confirmed is set when the user approved generation for the instance.
	// It survives re-evaluation but not structural changes to the node.
	Confirmed bool

	// PreviewURL is the locally synthesized ghost preview, if any. An
	// upstream preview arriving on the payload takes precedence over it.
	PreviewURL string
}

// Store is a concurrency-safe map of instance state keyed by node and
// instance index.
type Store struct {
	mu        sync.RWMutex
	instances map[string]*InstanceState
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{instances: make(map[string]*InstanceState)}
}

func key(nodeID string, index int) string {
	return fmt.Sprintf("%s/%d", nodeID, index)
}

// Confirm records the user's approval for an instance.
func (s *Store) Confirm(nodeID string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(nodeID, index).Confirmed = true
}

// Unconfirm withdraws an approval, typically after an evaluation consumed it.
func (s *Store) Unconfirm(nodeID string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(nodeID, index).Confirmed = false
}

// IsConfirmed reports whether the instance has a pending approval.
func (s *Store) IsConfirmed(nodeID string, index int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.instances[key(nodeID, index)]
	return ok && st.Confirmed
}

// SetPreview stores a locally synthesized preview for the instance.
func (s *Store) SetPreview(nodeID string, index int, dataURI string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(nodeID, index).PreviewURL = dataURI
}

// Preview returns the instance's local preview, or "" when none exists.
func (s *Store) Preview(nodeID string, index int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.instances[key(nodeID, index)]
	if !ok {
		return ""
	}
	return st.PreviewURL
}

// ClearInstance drops all session state for one instance.
func (s *Store) ClearInstance(nodeID string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instances, key(nodeID, index))
}

// ClearNode drops session state for every instance of the node. Called when
// the node's inputs change structurally: stale confirmations must not
// approve work the user never saw.
func (s *Store) ClearNode(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := nodeID + "/"
	for k := range s.instances {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(s.instances, k)
		}
	}
}

// get returns the state for the key, creating it if needed.
// Callers must hold the write lock.
func (s *Store) get(nodeID string, index int) *InstanceState {
	k := key(nodeID, index)
	st, ok := s.instances[k]
	if !ok {
		st = &InstanceState{}
		s.instances[k] = st
	}
	return st
}
