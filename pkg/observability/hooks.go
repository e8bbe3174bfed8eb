// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about node evaluation, cache operations, and synthesis calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Engine().OnEvaluateStart(ctx, nodeID, instances)
//	// ... evaluate ...
//	observability.Engine().OnEvaluateComplete(ctx, nodeID, published, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from node evaluation.
type EngineHooks interface {
	// Evaluation events
	OnEvaluateStart(ctx context.Context, nodeID string, instances int)
	OnEvaluateComplete(ctx context.Context, nodeID string, published int, duration time.Duration, err error)

	// Transform events, one per mapping instance
	OnTransform(ctx context.Context, nodeID string, index int, status string, scale float64)

	// Gate events
	OnGateAwait(ctx context.Context, nodeID string, index int)
	OnGateApproved(ctx context.Context, nodeID string, index int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Synthesis Hooks
// =============================================================================

// SynthHooks receives events from preview synthesis.
type SynthHooks interface {
	// OnSynthStart records a dispatched synthesis request.
	OnSynthStart(ctx context.Context, nodeID string, index int)

	// OnSynthComplete records a finished synthesis request.
	OnSynthComplete(ctx context.Context, nodeID string, index int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnEvaluateStart(context.Context, string, int) {}
func (NoopEngineHooks) OnEvaluateComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopEngineHooks) OnTransform(context.Context, string, int, string, float64) {}
func (NoopEngineHooks) OnGateAwait(context.Context, string, int)                  {}
func (NoopEngineHooks) OnGateApproved(context.Context, string, int)               {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopSynthHooks is a no-op implementation of SynthHooks.
type NoopSynthHooks struct{}

func (NoopSynthHooks) OnSynthStart(context.Context, string, int)                          {}
func (NoopSynthHooks) OnSynthComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	synthHooks  SynthHooks  = NoopSynthHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any evaluation.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetSynthHooks registers custom synthesis hooks.
// This should be called once at application startup before any synthesis.
func SetSynthHooks(h SynthHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		synthHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Synth returns the registered synthesis hooks.
func Synth() SynthHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return synthHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	cacheHooks = NoopCacheHooks{}
	synthHooks = NoopSynthHooks{}
}
