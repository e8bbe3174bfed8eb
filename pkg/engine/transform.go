package engine

import (
	"fmt"

	"github.com/framefold/remap/pkg/layer"
)

// GenerativeLayerID is the identifier of the synthetic background layer
// spliced in when generation is approved.
const GenerativeLayerID = "__generative__"

// Input is one resolved (source, target) pair plus the session state the
// gate decides on. The resolver fills the geometric half; the pipeline
// fills Confirmed, Credits and the preview URLs.
type Input struct {
	SourceName   string
	Tree         *layer.Node
	SourceBounds layer.Rect
	Strategy     *layer.Strategy

	TargetName   string
	TargetBounds layer.Rect

	// Confirmed is the user's confirmation state for this instance.
	Confirmed bool

	// Credits is a snapshot of the available balance. The engine never
	// spends; the pipeline does, after the gate approves.
	Credits int

	// UpstreamPreviewURL is a preview supplied by the upstream context,
	// preferred over any locally synthesized draft.
	UpstreamPreviewURL string

	// LocalPreviewURL is a ghost synthesized in an earlier pass.
	LocalPreviewURL string
}

// Transform runs the full engine for one ready pair: scale and anchor,
// recursive layer transform, boundary clamp, decision gate, payload
// assembly. The returned error is limited to degenerate bounds; every
// gate branch yields a valid payload.
func Transform(in Input, opts Options) (Payload, error) {
	opts.SetDefaults()

	if err := in.SourceBounds.Validate(); err != nil {
		return Payload{}, fmt.Errorf("source bounds: %w", err)
	}
	if err := in.TargetBounds.Validate(); err != nil {
		return Payload{}, fmt.Errorf("target bounds: %w", err)
	}

	src, dst := in.SourceBounds, in.TargetBounds

	// Step 1: scale and anchor. The default is a uniform fit that preserves
	// aspect and never overflows either axis; a strategy's suggested scale
	// is authoritative even when it overflows. Horizontal placement always
	// centers regardless of strategy.
	scale := min(dst.W/src.W, dst.H/src.H)
	if in.Strategy != nil && in.Strategy.SuggestedScale > 0 {
		scale = in.Strategy.SuggestedScale
	}

	scaledW := src.W * scale
	scaledH := src.H * scale
	originX := dst.X + (dst.W-scaledW)/2

	anchor := layer.AnchorCenter
	if in.Strategy != nil && in.Strategy.Anchor != "" {
		anchor = in.Strategy.Anchor
	}
	var originY float64
	switch anchor {
	case layer.AnchorTop:
		originY = dst.Y
	case layer.AnchorBottom:
		originY = dst.Y + dst.H - scaledH
	default:
		originY = dst.Y + (dst.H-scaledH)/2
	}

	tr := &treeTransformer{
		src:     src,
		dst:     dst,
		scale:   scale,
		originX: originX,
		originY: originY,
		strat:   in.Strategy,
		bleed:   dst.H * opts.MaxBoundaryViolationPercent,
	}

	var layers []*layer.TransformedNode
	if in.Tree != nil {
		// Step 2 + 3: recursive transform with an initially zero inherited
		// delta, clamping as it goes.
		layers = append(layers, tr.transform(in.Tree, 0, 0))
	}

	p := Payload{
		Status:       StatusSuccess,
		SourceName:   in.SourceName,
		TargetName:   in.TargetName,
		Layers:       layers,
		Scale:        scale,
		SourceWidth:  src.W,
		SourceHeight: src.H,
		TargetWidth:  dst.W,
		TargetHeight: dst.H,
		Confirmed:    in.Confirmed,
	}

	// Resolved ghost preview: upstream wins over the local draft.
	p.PreviewURL = in.UpstreamPreviewURL
	if p.PreviewURL == "" {
		p.PreviewURL = in.LocalPreviewURL
	}

	// Step 4: decision gate.
	gi := GateInput{Scale: scale, Confirmed: in.Confirmed, Credits: in.Credits}
	if in.Strategy != nil {
		gi.Prompt = in.Strategy.Prompt
		gi.ExplicitIntent = in.Strategy.ExplicitIntent
	}

	switch EvaluateGate(gi, opts) {
	case GateApproved:
		p.RequiresGeneration = true
		p.Prompt = gi.Prompt
		// Full-target-sized background fill beneath the geometric layers.
		p.Layers = append([]*layer.TransformedNode{{
			ID:      GenerativeLayerID,
			Name:    "Generative Fill",
			Bounds:  dst,
			Visible: true,
			Opacity: 1,
			Kind:    layer.KindGenerative,
			ScaleX:  1,
			ScaleY:  1,
			Prompt:  gi.Prompt,
		}}, p.Layers...)
	case GateAwaitConfirmation:
		p.Status = StatusAwaitingConfirmation
	case GateInsufficientCredits:
		p.Status = StatusError
	}

	opts.Logger.Debug("transformed instance",
		"source", in.SourceName,
		"target", in.TargetName,
		"scale", scale,
		"status", p.Status)

	return p, nil
}

// treeTransformer carries the per-pass constants of the recursive
// transform so the recursion only threads the inherited delta.
type treeTransformer struct {
	src, dst layer.Rect
	scale    float64
	originX  float64
	originY  float64
	strat    *layer.Strategy
	bleed    float64
}

// transform maps one source layer into target space, depth-first, parent
// before children.
//
// The geometric baseline normalizes the layer's position against the source
// rect and re-projects it through (scale, origin). The inherited delta, the
// accumulated displacement of overridden ancestors, is then added so that
// descendants follow repositioned ancestors by default. A matching override
// discards the baseline entirely: the layer lands at an absolute offset from
// the target origin, and the delta handed to its children becomes the
// difference between that position and the baseline.
func (t *treeTransformer) transform(n *layer.Node, dx, dy float64) *layer.TransformedNode {
	relX := (n.Bounds.X - t.src.X) / t.src.W
	relY := (n.Bounds.Y - t.src.Y) / t.src.H
	baseX := t.originX + relX*t.src.W*t.scale
	baseY := t.originY + relY*t.src.H*t.scale

	x := baseX + dx
	y := baseY + dy
	sx, sy := t.scale, t.scale
	childDX, childDY := dx, dy

	if ov := t.strat.OverrideFor(n.ID); ov != nil {
		// Override coordinates are target-relative, not source-relative.
		x = t.dst.X + ov.OffsetX
		y = t.dst.Y + ov.OffsetY
		childDX = x - baseX
		childDY = y - baseY
		if ov.Scale > 0 {
			sx *= ov.Scale
			sy *= ov.Scale
		}
	}

	// Vertical clamp with tolerated bleed. Horizontal overflow is allowed.
	y = clamp(y, t.dst.Y-t.bleed, t.dst.Y+t.dst.H+t.bleed)

	out := &layer.TransformedNode{
		ID:      n.ID,
		Name:    n.Name,
		Bounds:  layer.Rect{X: x, Y: y, W: n.Bounds.W * sx, H: n.Bounds.H * sy},
		Visible: n.Visible,
		Opacity: n.Opacity,
		Kind:    n.Kind,
		ScaleX:  sx,
		ScaleY:  sy,
		OffsetX: x - baseX,
		OffsetY: y - baseY,
	}
	if out.Kind == "" {
		out.Kind = layer.KindContent
	}

	for _, c := range n.Children {
		out.Children = append(out.Children, t.transform(c, childDX, childDY))
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
