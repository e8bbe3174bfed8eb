package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/framefold/remap/pkg/engine"
	"github.com/framefold/remap/pkg/template"
)

// MemoryStore is the in-memory implementation of [Store]. It is the default
// backend: registries are session state, only the per-node instance count
// lives in durable storage (see the nodestate package).
type MemoryStore struct {
	mu        sync.RWMutex
	contexts  map[storeKey]MappingContext
	templates map[string]template.Template
	payloads  map[storeKey]engine.Payload
	hashes    map[storeKey]string
	observers []Observer
}

type storeKey struct {
	nodeID   string
	handleID string
}

// NewMemoryStore creates an empty in-memory registry store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		contexts:  make(map[storeKey]MappingContext),
		templates: make(map[string]template.Template),
		payloads:  make(map[storeKey]engine.Payload),
		hashes:    make(map[storeKey]string),
	}
}

// ResolvedContext returns the context published for (nodeID, handleID).
func (s *MemoryStore) ResolvedContext(nodeID, handleID string) (MappingContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctx, ok := s.contexts[storeKey{nodeID, handleID}]
	return ctx, ok
}

// SetResolvedContext publishes a context for (nodeID, handleID).
func (s *MemoryStore) SetResolvedContext(nodeID, handleID string, ctx MappingContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[storeKey{nodeID, handleID}] = ctx
}

// RemoveResolvedContext drops a published context, e.g. when the upstream
// node is disconnected or its document unloaded.
func (s *MemoryStore) RemoveResolvedContext(nodeID, handleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contexts, storeKey{nodeID, handleID})
}

// Template returns the template registered for nodeID.
func (s *MemoryStore) Template(nodeID string) (template.Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[nodeID]
	return t, ok
}

// SetTemplate registers a template snapshot for nodeID.
func (s *MemoryStore) SetTemplate(nodeID string, t template.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[nodeID] = t
}

// RegisterPayload publishes one instance's payload and notifies observers.
//
// Change detection hashes the payload with its preview URL blanked: an
// identical hash with a different preview is a draft refresh, an identical
// hash with an identical preview is absorbed silently, anything else is a
// structural change.
func (s *MemoryStore) RegisterPayload(nodeID, handleID string, p engine.Payload) {
	key := storeKey{nodeID, handleID}
	newHash := structuralHash(p)

	s.mu.Lock()
	prev, existed := s.payloads[key]
	prevHash := s.hashes[key]
	s.payloads[key] = p
	s.hashes[key] = newHash
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	kind := ChangeStructural
	if existed && prevHash == newHash {
		if prev.PreviewURL == p.PreviewURL {
			return // nothing changed
		}
		kind = ChangeDraftRefresh
	}

	for _, o := range observers {
		o.OnPayload(nodeID, handleID, p, kind)
	}
}

// Payload returns the last published payload for (nodeID, handleID).
func (s *MemoryStore) Payload(nodeID, handleID string) (engine.Payload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payloads[storeKey{nodeID, handleID}]
	return p, ok
}

// Payloads returns every payload published for nodeID, keyed by handle.
func (s *MemoryStore) Payloads(nodeID string) map[string]engine.Payload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]engine.Payload)
	for k, p := range s.payloads {
		if k.nodeID == nodeID {
			out[k.handleID] = p
		}
	}
	return out
}

// RemovePayload drops a published payload.
func (s *MemoryStore) RemovePayload(nodeID, handleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.payloads, storeKey{nodeID, handleID})
	delete(s.hashes, storeKey{nodeID, handleID})
}

// Subscribe registers an observer for subsequent publications.
func (s *MemoryStore) Subscribe(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// structuralHash is a content hash of the payload with the preview URL
// zeroed, so preview-only patches hash identically.
func structuralHash(p engine.Payload) string {
	p.PreviewURL = ""
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
