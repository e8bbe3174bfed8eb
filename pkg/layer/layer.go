// Package layer defines the layered-document data model used throughout
// remap: source layer trees as produced by an upstream document parser,
// the axis-aligned rectangles that bound them, and the transformed trees
// emitted by the remapping engine.
//
// Source trees are consumed read-only. The engine never mutates a
// [Node]; it produces a parallel [TransformedNode] tree instead.
package layer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLayerID is returned by [Node.Validate] when a layer has an
	// empty identifier. All layers must have non-empty identifiers.
	ErrInvalidLayerID = errors.New("layer ID must not be empty")

	// ErrDuplicateLayerID is returned by [Node.Validate] when two layers in
	// the same tree share an identifier.
	ErrDuplicateLayerID = errors.New("duplicate layer ID")

	// ErrLayerCycle is returned by [Node.Validate] when a layer appears as
	// its own ancestor. Layer trees must be acyclic.
	ErrLayerCycle = errors.New("layer tree contains a cycle")

	// ErrEmptyBounds is returned by [Rect.Validate] when a rectangle has a
	// non-positive width or height.
	ErrEmptyBounds = errors.New("bounds must have positive width and height")
)

// Rect is an axis-aligned rectangle. It is a value type: every entity that
// carries a Rect owns its copy, there are no shared mutable rectangles.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Validate reports whether the rectangle can act as a source or target
// region. Zero-area rectangles cannot be remapped.
func (r Rect) Validate() error {
	if r.W <= 0 || r.H <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrEmptyBounds, r.W, r.H)
	}
	return nil
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Layer kinds. KindGenerative marks synthetic layers spliced in by the
// generative gate; everything parsed from a document is KindContent.
const (
	KindContent    = "content"
	KindGenerative = "generative"
)

// Node is one layer in a source document tree. Children are owned by the
// parent and ordered; the same Node must not appear twice in one tree.
//
// Nodes are produced by the upstream document parser and treated as
// read-only by the transform engine.
type Node struct {
	ID       string  `json:"id"`
	Name     string  `json:"name,omitempty"`
	Bounds   Rect    `json:"bounds"`
	Visible  bool    `json:"visible"`
	Opacity  float64 `json:"opacity"`
	Kind     string  `json:"kind,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Validate checks tree integrity: non-empty unique IDs and no cycles.
// Cycles can only be introduced by programmatic construction (the JSON
// decoder cannot produce them), but the engine recurses unconditionally,
// so callers constructing trees by hand should validate first.
func (n *Node) Validate() error {
	seen := make(map[string]bool)
	onPath := make(map[*Node]bool)
	return validateNode(n, seen, onPath)
}

func validateNode(n *Node, seen map[string]bool, onPath map[*Node]bool) error {
	if n == nil {
		return nil
	}
	if onPath[n] {
		return fmt.Errorf("%w: at %q", ErrLayerCycle, n.ID)
	}
	if n.ID == "" {
		return ErrInvalidLayerID
	}
	if seen[n.ID] {
		return fmt.Errorf("%w: %q", ErrDuplicateLayerID, n.ID)
	}
	seen[n.ID] = true

	onPath[n] = true
	for _, c := range n.Children {
		if err := validateNode(c, seen, onPath); err != nil {
			return err
		}
	}
	delete(onPath, n)
	return nil
}

// Count returns the number of layers in the tree rooted at n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Find returns the layer with the given ID, searching depth-first, or nil.
func (n *Node) Find(id string) *Node {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// TransformedNode is one layer of the engine's output tree. It mirrors the
// shape of the source tree but is a fresh structure: it never aliases
// source nodes, and its Bounds are in target space.
type TransformedNode struct {
	ID      string  `json:"id"`
	Name    string  `json:"name,omitempty"`
	Bounds  Rect    `json:"bounds"`
	Visible bool    `json:"visible"`
	Opacity float64 `json:"opacity"`
	Kind    string  `json:"kind,omitempty"`

	// Transform metadata: the effective per-axis scale and the offset from
	// the geometric baseline that produced Bounds.
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`

	// Prompt is set only on synthetic generative layers.
	Prompt string `json:"prompt,omitempty"`

	Children []*TransformedNode `json:"children,omitempty"`
}

// Count returns the number of layers in the transformed tree rooted at n.
func (n *TransformedNode) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Find returns the transformed layer with the given ID, or nil.
func (n *TransformedNode) Find(id string) *TransformedNode {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}
