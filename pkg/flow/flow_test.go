package flow

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()
	for _, n := range []Node{
		{ID: "doc", Type: TypeDocument, Label: "source.psd"},
		{ID: "ctx", Type: TypeContext},
		{ID: "tpl", Type: TypeTemplate, Label: "flyer"},
		{ID: "map", Type: TypeRemap},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	edges := []Edge{
		{Source: "doc", SourceHandle: "layers-out", Target: "ctx", TargetHandle: "layers-in"},
		{Source: "ctx", SourceHandle: "context-out", Target: "map", TargetHandle: SourceInHandle(0)},
		{Source: "tpl", SourceHandle: "hero", Target: "map", TargetHandle: TargetInHandle(0)},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s→%s): %v", e.Source, e.Target, err)
		}
	}
	return g
}

func TestHandleNames(t *testing.T) {
	if got := SourceInHandle(3); got != "source-in-3" {
		t.Errorf("SourceInHandle(3) = %q", got)
	}
	if got := TargetInHandle(0); got != "target-in-0" {
		t.Errorf("TargetInHandle(0) = %q", got)
	}
}

func TestAddNodeErrors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID: got %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate ID: got %v, want ErrDuplicateNodeID", err)
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	if err := g.AddEdge(Edge{Source: "a", Target: "ghost"}); !errors.Is(err, ErrUnknownEndpoint) {
		t.Errorf("unknown target: got %v, want ErrUnknownEndpoint", err)
	}
	if err := g.AddEdge(Edge{Source: "ghost", Target: "a"}); !errors.Is(err, ErrUnknownEndpoint) {
		t.Errorf("unknown source: got %v, want ErrUnknownEndpoint", err)
	}
}

func TestEdgeInto(t *testing.T) {
	g := buildGraph(t)

	e, ok := g.EdgeInto("map", SourceInHandle(0))
	if !ok || e.Source != "ctx" {
		t.Errorf("EdgeInto(map, source-in-0) = %+v %v, want edge from ctx", e, ok)
	}

	if _, ok := g.EdgeInto("map", SourceInHandle(1)); ok {
		t.Error("EdgeInto for unconnected handle should be a miss")
	}
}

func TestNodesOfType(t *testing.T) {
	g := buildGraph(t)
	remaps := g.NodesOfType(TypeRemap)
	if len(remaps) != 1 || remaps[0].ID != "map" {
		t.Errorf("NodesOfType(remap) = %v, want [map]", remaps)
	}
}

func TestGraphRoundTrip(t *testing.T) {
	g := buildGraph(t)

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	got, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if got.NodeCount() != g.NodeCount() || got.EdgeCount() != g.EdgeCount() {
		t.Errorf("round trip: %d/%d nodes, %d/%d edges",
			got.NodeCount(), g.NodeCount(), got.EdgeCount(), g.EdgeCount())
	}

	// Deterministic output: marshal twice, byte-identical.
	data2, err := MarshalGraph(got)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	if !bytes.Equal(data, data2) {
		t.Error("serialization should be deterministic")
	}
}

func TestToDOT(t *testing.T) {
	g := buildGraph(t)

	dot := ToDOT(g, DOTOptions{})
	for _, want := range []string{"digraph G", `"doc"`, `"map"`, `"doc" -> "ctx"`, "peripheries=2"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "source-in-0") {
		t.Error("handle labels should be off by default")
	}

	detailed := ToDOT(g, DOTOptions{Detailed: true})
	if !strings.Contains(detailed, "source-in-0") {
		t.Error("detailed DOT output should include handle labels")
	}
}
