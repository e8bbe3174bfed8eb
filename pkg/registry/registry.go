// Package registry provides the keyed stores the remap engine collaborates
// with: resolved upstream contexts, registered templates, published instance
// payloads, and durable per-node state.
//
// The surrounding editor shell owns these registries conceptually; modeling
// them as explicit get/put interfaces (instead of ambient shared state)
// keeps the engine a pure function of its inputs and makes update
// notification an explicit observer mechanism.
//
// Within one evaluation pass there is a single logical writer per entry and
// reads are snapshot-consistent, so the in-memory implementation only needs
// a mutex to protect against the out-of-band synthesis completions.
package registry

import (
	"github.com/framefold/remap/pkg/engine"
	"github.com/framefold/remap/pkg/layer"
	"github.com/framefold/remap/pkg/template"
)

// MappingContext is the source metadata an upstream node publishes for one
// of its outgoing handles: the parsed layer tree, its bounds, and any
// injected AI layout strategy.
type MappingContext struct {
	// Name is the human-readable container/document name.
	Name string `json:"name"`

	Tree   *layer.Node `json:"tree"`
	Bounds layer.Rect  `json:"bounds"`

	// Strategy is optional AI layout guidance injected by a context node.
	Strategy *layer.Strategy `json:"strategy,omitempty"`

	// PreviewURL is an upstream-supplied ghost preview, preferred over any
	// locally synthesized draft.
	PreviewURL string `json:"preview_url,omitempty"`

	// TargetWidth/TargetHeight are explicit output dimensions requested
	// upstream, zero when unset.
	TargetWidth  float64 `json:"target_width,omitempty"`
	TargetHeight float64 `json:"target_height,omitempty"`

	// ContentNodeID identifies the node owning the underlying binary (the
	// original document-load node). It is tracked separately from the node
	// the edge originates at, which may be a republishing context node.
	ContentNodeID string `json:"content_node_id,omitempty"`
}

// ContextStore resolves upstream source metadata by (node, handle).
type ContextStore interface {
	// ResolvedContext returns the context published for (nodeID, handleID).
	// A miss is not an error: the instance's source side is simply not
	// ready yet.
	ResolvedContext(nodeID, handleID string) (MappingContext, bool)

	// SetResolvedContext publishes a context for (nodeID, handleID).
	SetResolvedContext(nodeID, handleID string, ctx MappingContext)
}

// TemplateStore resolves registered templates by node.
type TemplateStore interface {
	// Template returns the template registered for nodeID. Templates are
	// immutable snapshots once registered.
	Template(nodeID string) (template.Template, bool)

	// SetTemplate registers a template for nodeID.
	SetTemplate(nodeID string, t template.Template)
}

// ChangeKind classifies a payload publication for observers.
type ChangeKind int

const (
	// ChangeStructural: the payload's transform, status, or requirement
	// flags differ from the previous publication.
	ChangeStructural ChangeKind = iota

	// ChangeDraftRefresh: only the ghost preview URL changed; status,
	// requirement flags and the transformed tree are stable. Downstream
	// consumers treat this as a non-billable visual update.
	ChangeDraftRefresh
)

// String returns the change kind's wire name.
func (k ChangeKind) String() string {
	if k == ChangeDraftRefresh {
		return "draft_refresh"
	}
	return "structural"
}

// Observer is notified of payload publications. The no-op default keeps
// library code free of hard observer dependencies.
type Observer interface {
	OnPayload(nodeID, handleID string, p engine.Payload, kind ChangeKind)
}

// NoopObserver is an Observer that ignores every event.
type NoopObserver struct{}

func (NoopObserver) OnPayload(string, string, engine.Payload, ChangeKind) {}

// PayloadStore publishes and retrieves per-instance payloads.
type PayloadStore interface {
	// RegisterPayload publishes one instance's result, superseding any
	// previous payload for (nodeID, handleID), and notifies observers with
	// the detected change kind. Identical re-publications are absorbed.
	RegisterPayload(nodeID, handleID string, p engine.Payload)

	// Payload returns the last published payload for (nodeID, handleID).
	Payload(nodeID, handleID string) (engine.Payload, bool)

	// Payloads returns every payload published for nodeID, keyed by handle.
	Payloads(nodeID string) map[string]engine.Payload

	// RemovePayload drops a published payload, e.g. when an instance's
	// source or target becomes unready.
	RemovePayload(nodeID, handleID string)

	// Subscribe registers an observer for subsequent publications.
	Subscribe(o Observer)
}

// Store bundles the three registries one evaluation pass reads and writes.
type Store interface {
	ContextStore
	TemplateStore
	PayloadStore
}
