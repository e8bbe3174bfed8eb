// Package resolve implements the handle resolver: for each instance index
// of a remap node it determines the connected source (layer tree, bounds,
// optional AI strategy) and target (named template container), using the
// node's incoming edges and the external registries.
//
// Resolution never fails. A missing edge, registry entry or container
// leaves the corresponding side not ready; downstream consumers treat
// not-ready as "nothing to do yet", not as an error.
package resolve

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/framefold/remap/pkg/flow"
	"github.com/framefold/remap/pkg/layer"
	"github.com/framefold/remap/pkg/registry"
)

// Source is the resolved source side of one instance.
type Source struct {
	Ready bool

	Name   string
	Tree   *layer.Node
	Bounds layer.Rect

	// Strategy is AI layout guidance injected upstream, nil when absent.
	Strategy *layer.Strategy

	// PreviewURL is an upstream-supplied ghost preview.
	PreviewURL string

	// TargetWidth/TargetHeight are explicit output dimensions requested
	// upstream, zero when unset.
	TargetWidth  float64
	TargetHeight float64

	// OriginNodeID is the node the resolved edge originates at, which may
	// be a republishing context node.
	OriginNodeID string

	// ContentNodeID is the node owning the underlying document binary.
	// Downstream consumers need it separately from OriginNodeID.
	ContentNodeID string
}

// Target is the resolved target side of one instance.
type Target struct {
	Ready bool

	Name   string
	Bounds layer.Rect
}

// Instance is one resolved source→target remapping slot. It is ephemeral:
// recomputed on every evaluation pass and never persisted.
type Instance struct {
	Index  int
	Source Source
	Target Target
}

// Ready reports whether both sides resolved.
func (i Instance) Ready() bool {
	return i.Source.Ready && i.Target.Ready
}

// Resolver resolves remap instances against the editor graph and the
// external registries.
type Resolver struct {
	Graph     *flow.Graph
	Contexts  registry.ContextStore
	Templates registry.TemplateStore
	Logger    *log.Logger
}

// New creates a resolver. A nil logger discards debug output.
func New(g *flow.Graph, contexts registry.ContextStore, templates registry.TemplateStore, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Resolver{Graph: g, Contexts: contexts, Templates: templates, Logger: logger}
}

// Resolve resolves instance index i of the given remap node.
func (r *Resolver) Resolve(nodeID string, index int) Instance {
	inst := Instance{Index: index}
	inst.Source = r.resolveSource(nodeID, index)
	inst.Target = r.resolveTarget(nodeID, index)
	return inst
}

// ResolveAll resolves instances 0..count-1 of the given remap node.
func (r *Resolver) ResolveAll(nodeID string, count int) []Instance {
	out := make([]Instance, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, r.Resolve(nodeID, i))
	}
	return out
}

func (r *Resolver) resolveSource(nodeID string, index int) Source {
	edge, ok := r.Graph.EdgeInto(nodeID, flow.SourceInHandle(index))
	if !ok {
		return Source{}
	}

	ctx, ok := r.Contexts.ResolvedContext(edge.Source, edge.SourceHandle)
	if !ok {
		r.Logger.Debug("source context not published yet",
			"node", nodeID, "instance", index, "origin", edge.Source)
		return Source{}
	}

	return Source{
		Ready:         true,
		Name:          ctx.Name,
		Tree:          ctx.Tree,
		Bounds:        ctx.Bounds,
		Strategy:      ctx.Strategy,
		PreviewURL:    ctx.PreviewURL,
		TargetWidth:   ctx.TargetWidth,
		TargetHeight:  ctx.TargetHeight,
		OriginNodeID:  edge.Source,
		ContentNodeID: ctx.ContentNodeID,
	}
}

func (r *Resolver) resolveTarget(nodeID string, index int) Target {
	edge, ok := r.Graph.EdgeInto(nodeID, flow.TargetInHandle(index))
	if !ok {
		return Target{}
	}

	tpl, ok := r.Templates.Template(edge.Source)
	if !ok {
		r.Logger.Debug("template not registered yet",
			"node", nodeID, "instance", index, "origin", edge.Source)
		return Target{}
	}

	container, ok := tpl.Match(edge.SourceHandle)
	if !ok {
		r.Logger.Debug("no container matched handle",
			"node", nodeID, "instance", index, "handle", edge.SourceHandle)
		return Target{}
	}

	return Target{
		Ready:  true,
		Name:   container.DisplayName(),
		Bounds: container.Bounds,
	}
}
