package engine_test

import (
	"fmt"

	"github.com/framefold/remap/pkg/engine"
	"github.com/framefold/remap/pkg/layer"
)

// A tall slot forces the width-limited fit: a 100x100 source scales to 0.5
// and centers vertically inside the 50x200 target.
func ExampleTransform() {
	in := engine.Input{
		SourceName: "poster",
		Tree: &layer.Node{
			ID:      "root",
			Name:    "Root",
			Bounds:  layer.Rect{W: 100, H: 100},
			Visible: true,
			Opacity: 1,
		},
		SourceBounds: layer.Rect{W: 100, H: 100},
		TargetName:   "hero",
		TargetBounds: layer.Rect{W: 50, H: 200},
	}

	p, err := engine.Transform(in, engine.Options{})
	if err != nil {
		panic(err)
	}

	root := p.Root()
	fmt.Println("status:", p.Status)
	fmt.Printf("scale: %.1f\n", p.Scale)
	fmt.Printf("root: (%.0f, %.0f) %gx%g\n", root.Bounds.X, root.Bounds.Y, root.Bounds.W, root.Bounds.H)
	// Output:
	// status: success
	// scale: 0.5
	// root: (0, 75) 50x50
}

// A generative prompt without confirmation parks the instance behind the
// gate; the geometric transform is still complete.
func ExampleTransform_gated() {
	in := engine.Input{
		SourceName: "poster",
		Tree: &layer.Node{
			ID:      "root",
			Name:    "Root",
			Bounds:  layer.Rect{W: 100, H: 100},
			Visible: true,
			Opacity: 1,
		},
		SourceBounds: layer.Rect{W: 100, H: 100},
		TargetName:   "hero",
		TargetBounds: layer.Rect{W: 50, H: 200},
		Strategy: &layer.Strategy{
			Prompt:         "extend the sky upward",
			ExplicitIntent: true,
		},
		Credits: 10,
	}

	p, err := engine.Transform(in, engine.Options{})
	if err != nil {
		panic(err)
	}

	fmt.Println("status:", p.Status)
	fmt.Println("generative layer:", p.GenerativeLayer() != nil)
	// Output:
	// status: awaiting_confirmation
	// generative layer: false
}
