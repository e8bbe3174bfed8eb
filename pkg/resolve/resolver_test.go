package resolve

import (
	"testing"

	"github.com/framefold/remap/pkg/flow"
	"github.com/framefold/remap/pkg/layer"
	"github.com/framefold/remap/pkg/registry"
	"github.com/framefold/remap/pkg/template"
)

// fixture wires a document node, a strategy-injecting context node, a
// template node and a remap node, with instance 0 fully connected.
func fixture(t *testing.T) (*flow.Graph, *registry.MemoryStore) {
	t.Helper()

	g := flow.New()
	for _, n := range []flow.Node{
		{ID: "doc", Type: flow.TypeDocument},
		{ID: "ctx", Type: flow.TypeContext},
		{ID: "tpl", Type: flow.TypeTemplate},
		{ID: "map", Type: flow.TypeRemap},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	for _, e := range []flow.Edge{
		{Source: "ctx", SourceHandle: "context-out", Target: "map", TargetHandle: flow.SourceInHandle(0)},
		{Source: "tpl", SourceHandle: "hero", Target: "map", TargetHandle: flow.TargetInHandle(0)},
		// Instance 1 has a source edge but its context is never published.
		{Source: "ctx", SourceHandle: "context-out-b", Target: "map", TargetHandle: flow.SourceInHandle(1)},
	} {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}

	store := registry.NewMemoryStore()
	store.SetResolvedContext("ctx", "context-out", registry.MappingContext{
		Name:          "poster",
		Tree:          &layer.Node{ID: "root", Bounds: layer.Rect{W: 100, H: 100}},
		Bounds:        layer.Rect{W: 100, H: 100},
		Strategy:      &layer.Strategy{SuggestedScale: 1.2},
		PreviewURL:    "https://upstream/ghost.png",
		ContentNodeID: "doc",
	})
	store.SetTemplate("tpl", template.Template{
		Name: "flyer",
		Containers: []template.Container{
			{Name: "hero", OriginalName: "Hero Banner", Bounds: layer.Rect{W: 200, H: 120}},
			{Name: "footer", Bounds: layer.Rect{Y: 120, W: 200, H: 30}},
		},
	})
	return g, store
}

func TestResolveReadyInstance(t *testing.T) {
	g, store := fixture(t)
	r := New(g, store, store, nil)

	inst := r.Resolve("map", 0)
	if !inst.Ready() {
		t.Fatalf("instance 0 should be ready: %+v", inst)
	}

	src := inst.Source
	if src.Name != "poster" || src.Tree == nil || src.Strategy == nil {
		t.Errorf("source incomplete: %+v", src)
	}
	if src.PreviewURL != "https://upstream/ghost.png" {
		t.Errorf("preview URL = %q", src.PreviewURL)
	}
	// The metadata origin and the binary owner are distinct nodes.
	if src.OriginNodeID != "ctx" || src.ContentNodeID != "doc" {
		t.Errorf("origin = %q content = %q, want ctx/doc", src.OriginNodeID, src.ContentNodeID)
	}

	tgt := inst.Target
	// Semantic alias preferred over raw container name.
	if tgt.Name != "Hero Banner" {
		t.Errorf("target name = %q, want Hero Banner", tgt.Name)
	}
	if tgt.Bounds != (layer.Rect{W: 200, H: 120}) {
		t.Errorf("target bounds = %+v", tgt.Bounds)
	}
}

func TestResolveNotReadySides(t *testing.T) {
	g, store := fixture(t)
	r := New(g, store, store, nil)

	tests := []struct {
		name       string
		index      int
		wantSource bool
		wantTarget bool
	}{
		// Edge exists but context was never published.
		{name: "UnpublishedContext", index: 1, wantSource: false, wantTarget: false},
		// No edges at all.
		{name: "UnconnectedInstance", index: 7, wantSource: false, wantTarget: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := r.Resolve("map", tt.index)
			if inst.Source.Ready != tt.wantSource || inst.Target.Ready != tt.wantTarget {
				t.Errorf("readiness = %v/%v, want %v/%v",
					inst.Source.Ready, inst.Target.Ready, tt.wantSource, tt.wantTarget)
			}
			if inst.Ready() {
				t.Error("instance should not be ready")
			}
		})
	}
}

func TestResolveTargetMatchingStrategies(t *testing.T) {
	tests := []struct {
		name     string
		handle   string
		wantName string
		wantOK   bool
	}{
		{name: "Exact", handle: "hero", wantName: "Hero Banner", wantOK: true},
		{name: "SlotBoundsPrefix", handle: "slot-bounds-footer", wantName: "footer", wantOK: true},
		{name: "Indexed", handle: "target-out-1", wantName: "footer", wantOK: true},
		{name: "IndexOutOfBounds", handle: "target-out-5"},
		{name: "Unmatched", handle: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, store := fixture(t)
			if err := g.AddEdge(flow.Edge{
				Source: "tpl", SourceHandle: tt.handle,
				Target: "map", TargetHandle: flow.TargetInHandle(3),
			}); err != nil {
				t.Fatalf("AddEdge: %v", err)
			}

			r := New(g, store, store, nil)
			tgt := r.Resolve("map", 3).Target
			if tgt.Ready != tt.wantOK {
				t.Fatalf("ready = %v, want %v", tgt.Ready, tt.wantOK)
			}
			if tt.wantOK && tgt.Name != tt.wantName {
				t.Errorf("name = %q, want %q", tgt.Name, tt.wantName)
			}
		})
	}
}

func TestResolveUnregisteredTemplate(t *testing.T) {
	g, store := fixture(t)
	_ = g.AddNode(flow.Node{ID: "tpl2", Type: flow.TypeTemplate})
	_ = g.AddEdge(flow.Edge{Source: "tpl2", SourceHandle: "hero", Target: "map", TargetHandle: flow.TargetInHandle(2)})

	r := New(g, store, store, nil)
	if r.Resolve("map", 2).Target.Ready {
		t.Error("target should not be ready without a registered template")
	}
}

func TestResolveAll(t *testing.T) {
	g, store := fixture(t)
	r := New(g, store, store, nil)

	instances := r.ResolveAll("map", 3)
	if len(instances) != 3 {
		t.Fatalf("ResolveAll returned %d instances, want 3", len(instances))
	}
	for i, inst := range instances {
		if inst.Index != i {
			t.Errorf("instance %d has index %d", i, inst.Index)
		}
	}
	if !instances[0].Ready() || instances[1].Ready() || instances[2].Ready() {
		t.Errorf("readiness pattern wrong: %v %v %v",
			instances[0].Ready(), instances[1].Ready(), instances[2].Ready())
	}
}
