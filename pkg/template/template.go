// Package template models target templates: named rectangular slots that
// source content is remapped into, and the handle-matching rules that bind
// an edge's origin handle to a specific slot.
package template

import (
	"strconv"
	"strings"

	"github.com/framefold/remap/pkg/layer"
)

// SlotBoundsPrefix is the handle prefix used by template nodes that expose
// one outgoing handle per slot with the slot name embedded.
const SlotBoundsPrefix = "slot-bounds-"

// indexedHandlePrefix matches handles of the form "target-out-<n>" where n
// is a zero-based slot index.
const indexedHandlePrefix = "target-out-"

// Container is one named slot within a template.
type Container struct {
	Name string `json:"name" bson:"name"`

	// OriginalName is an optional semantic alias (e.g. the layer name from
	// the template's own source document). Preferred for display.
	OriginalName string `json:"original_name,omitempty" bson:"original_name,omitempty"`

	Bounds layer.Rect `json:"bounds" bson:"bounds"`
}

// DisplayName returns the semantic alias when present, the raw name
// otherwise.
func (c Container) DisplayName() string {
	if c.OriginalName != "" {
		return c.OriginalName
	}
	return c.Name
}

// Template is an immutable snapshot of a target template's slot list.
// Templates are registered once per node and never mutated afterwards.
type Template struct {
	Name       string      `json:"name" bson:"name"`
	Containers []Container `json:"containers" bson:"containers"`
}

// Match resolves a container from an origin handle string, trying, in
// order, the first strategy that applies:
//
//  1. exact name equality between the handle and a container name;
//  2. the handle carries SlotBoundsPrefix and the remainder matches a
//     container name;
//  3. the handle is "target-out-<n>" and n is an in-bounds zero-based index
//     into the container list;
//  4. the template has exactly one container, used unconditionally.
//
// The boolean result is false when no strategy matches; that is not an
// error, it just leaves the instance's target side not ready.
func (t Template) Match(handle string) (Container, bool) {
	// Strategy 1: exact name.
	for _, c := range t.Containers {
		if c.Name == handle {
			return c, true
		}
	}

	// Strategy 2: slot-bounds prefix.
	if name, ok := strings.CutPrefix(handle, SlotBoundsPrefix); ok {
		for _, c := range t.Containers {
			if c.Name == name {
				return c, true
			}
		}
	}

	// Strategy 3: indexed handle.
	if rest, ok := strings.CutPrefix(handle, indexedHandlePrefix); ok {
		if idx, err := strconv.Atoi(rest); err == nil && idx >= 0 && idx < len(t.Containers) {
			return t.Containers[idx], true
		}
	}

	// Strategy 4: single-container fallback.
	if len(t.Containers) == 1 {
		return t.Containers[0], true
	}

	return Container{}, false
}
