package engine

import (
	"github.com/framefold/remap/pkg/layer"
)

// Status is the outcome of one instance's evaluation.
type Status string

const (
	// StatusSuccess marks a fully transformed instance; generation, if any,
	// is approved and spliced in.
	StatusSuccess Status = "success"

	// StatusAwaitingConfirmation marks an instance whose generative fill is
	// deferred until the user confirms it. The geometric transform is still
	// complete and renderable.
	StatusAwaitingConfirmation Status = "awaiting_confirmation"

	// StatusError marks an instance whose generation is mandatory but
	// cannot proceed, currently only for an exhausted credit balance at
	// confirmation time.
	StatusError Status = "error"
)

// Payload is the engine's output for one instance. It is recreated on every
// evaluation pass and superseded, never mutated, by the next pass; the one
// exception is the registry's preview-URL patching, which replaces the
// payload wholesale with an otherwise identical copy.
type Payload struct {
	Status Status `json:"status"`

	SourceName string `json:"source_name"`
	TargetName string `json:"target_name"`

	// Layers is the transformed output sequence, back to front. It holds
	// the transformed source root, preceded by a synthetic generative
	// background layer when generation was approved.
	Layers []*layer.TransformedNode `json:"layers"`

	// Scale is the uniform scale chosen in step 1 (default fit or
	// strategy-suggested).
	Scale float64 `json:"scale"`

	// Size metrics for UI display.
	SourceWidth  float64 `json:"source_width"`
	SourceHeight float64 `json:"source_height"`
	TargetWidth  float64 `json:"target_width"`
	TargetHeight float64 `json:"target_height"`

	// RequiresGeneration is true only once generation is approved.
	RequiresGeneration bool `json:"requires_generation"`

	// Prompt is the generative prompt captured for an approved generation.
	Prompt string `json:"prompt,omitempty"`

	// PreviewURL is the resolved ghost preview, preferring any
	// upstream-supplied URL over a locally synthesized draft.
	PreviewURL string `json:"preview_url,omitempty"`

	// Confirmed reflects the user confirmation state at evaluation time.
	Confirmed bool `json:"confirmed"`
}

// Root returns the transformed source root, skipping any prepended
// generative background layer, or nil for an empty payload.
func (p Payload) Root() *layer.TransformedNode {
	for _, l := range p.Layers {
		if l.Kind != layer.KindGenerative {
			return l
		}
	}
	return nil
}

// GenerativeLayer returns the synthetic background layer, or nil when
// generation was not approved.
func (p Payload) GenerativeLayer() *layer.TransformedNode {
	for _, l := range p.Layers {
		if l.Kind == layer.KindGenerative {
			return l
		}
	}
	return nil
}
