// Package flow models the node-editor graph the remap engine runs inside:
// nodes with typed roles, and directed edges whose endpoints carry handle
// identifiers. The engine only ever reads the graph; the editing surface
// that manipulates it lives outside this repository.
package flow

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownEndpoint is returned by [Graph.AddEdge] when either edge
	// endpoint references a node that does not exist.
	ErrUnknownEndpoint = errors.New("unknown edge endpoint")
)

// Node types. A remap node consumes sources and targets; document nodes own
// parsed layer trees (and the underlying binary); template nodes expose slot
// containers; context nodes republish another node's output with injected
// AI metadata.
const (
	TypeRemap    = "remap"
	TypeDocument = "document"
	TypeTemplate = "template"
	TypeContext  = "context"
)

// SourceInHandle returns the incoming handle name for remap instance i's
// source side.
func SourceInHandle(i int) string { return fmt.Sprintf("source-in-%d", i) }

// TargetInHandle returns the incoming handle name for remap instance i's
// target side.
func TargetInHandle(i int) string { return fmt.Sprintf("target-in-%d", i) }

// OutHandle returns the outgoing handle name remap instance i publishes its
// payload on.
func OutHandle(i int) string { return fmt.Sprintf("out-%d", i) }

// Node is one node in the editor graph.
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
}

// Edge is a directed connection between two node handles.
type Edge struct {
	Source       string `json:"source"`
	SourceHandle string `json:"source_handle,omitempty"`
	Target       string `json:"target"`
	TargetHandle string `json:"target_handle,omitempty"`
}

// Graph is the editor's node graph. It is not safe for concurrent mutation;
// evaluation passes read a snapshot under the single-writer model.
type Graph struct {
	nodes map[string]*Node
	edges []Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// NewNodeID mints a fresh node identifier.
func NewNodeID() string { return uuid.NewString() }

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID for empty IDs or ErrDuplicateNodeID when the ID
// is already present.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNodeID, n.ID)
	}
	copied := n
	g.nodes[n.ID] = &copied
	return nil
}

// AddEdge adds a directed edge. Both endpoints must already exist.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return fmt.Errorf("%w: source %q", ErrUnknownEndpoint, e.Source)
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return fmt.Errorf("%w: target %q", ErrUnknownEndpoint, e.Target)
	}
	g.edges = append(g.edges, e)
	return nil
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// Nodes returns all nodes. Order is unspecified.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// NodesOfType returns all nodes with the given type. Order is unspecified.
func (g *Graph) NodesOfType(typ string) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns a copy of the edge list.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgeInto returns the edge whose target side is (nodeID, handle), if any.
// At most one edge may terminate at a given target handle; when the editor
// allows several, the first wins.
func (g *Graph) EdgeInto(nodeID, handle string) (Edge, bool) {
	for _, e := range g.edges {
		if e.Target == nodeID && e.TargetHandle == handle {
			return e, true
		}
	}
	return Edge{}, false
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }
