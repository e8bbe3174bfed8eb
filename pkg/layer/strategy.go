package layer

// Anchor selects the vertical placement of scaled content within a target
// slot. Horizontal placement is always centered regardless of anchor.
type Anchor string

// Vertical anchor modes for [Strategy].
const (
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
	AnchorCenter Anchor = "center"
)

// Strategy is AI-derived layout guidance attached to a resolved source.
// When present it overrides the default uniform-fit centering: the suggested
// scale is authoritative even when it overflows the target.
type Strategy struct {
	// SuggestedScale replaces the default min-fit scale. Values <= 0 are
	// ignored and the default scale is kept.
	SuggestedScale float64 `json:"suggested_scale,omitempty"`

	// Anchor selects vertical placement. Anything other than AnchorTop or
	// AnchorBottom centers.
	Anchor Anchor `json:"anchor,omitempty"`

	// Prompt, when non-empty, makes the instance a candidate for generative
	// fill and activates the decision gate.
	Prompt string `json:"prompt,omitempty"`

	// ExplicitIntent marks strategies where generation was requested
	// outright rather than inferred.
	ExplicitIntent bool `json:"explicit_intent,omitempty"`

	// Overrides are per-layer placement corrections. Each override applies
	// to at most one layer by identifier; overrides naming layers that do
	// not exist in the tree are silently ignored.
	Overrides []Override `json:"overrides,omitempty"`
}

// Override repositions and rescales a single layer. Offsets are relative to
// the target slot's origin (not the source tree), and Scale multiplies the
// layer's inherited scale on both axes rather than replacing it.
type Override struct {
	LayerID string  `json:"layer_id"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Scale   float64 `json:"scale"`
}

// WantsGeneration reports whether the strategy carries a generative prompt.
// Without a prompt the decision gate never activates.
func (s *Strategy) WantsGeneration() bool {
	return s != nil && s.Prompt != ""
}

// OverrideFor returns the override naming the given layer ID, or nil.
// The override list is small in practice, so a linear scan suffices.
func (s *Strategy) OverrideFor(id string) *Override {
	if s == nil {
		return nil
	}
	for i := range s.Overrides {
		if s.Overrides[i].LayerID == id {
			return &s.Overrides[i]
		}
	}
	return nil
}
