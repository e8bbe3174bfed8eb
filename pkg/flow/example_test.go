package flow_test

import (
	"fmt"

	"github.com/framefold/remap/pkg/flow"
)

// A minimal editor graph: one document and one template feeding the first
// instance of a remap node.
func Example() {
	g := flow.New()

	for _, n := range []flow.Node{
		{ID: "doc", Type: flow.TypeDocument, Label: "Poster"},
		{ID: "tpl", Type: flow.TypeTemplate, Label: "Billboard"},
		{ID: "fit", Type: flow.TypeRemap},
	} {
		if err := g.AddNode(n); err != nil {
			panic(err)
		}
	}

	edges := []flow.Edge{
		{Source: "doc", SourceHandle: "out", Target: "fit", TargetHandle: flow.SourceInHandle(0)},
		{Source: "tpl", SourceHandle: "out", Target: "fit", TargetHandle: flow.TargetInHandle(0)},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			panic(err)
		}
	}

	fmt.Println("nodes:", g.NodeCount())
	fmt.Println("edges:", g.EdgeCount())

	e, ok := g.EdgeInto("fit", flow.SourceInHandle(0))
	fmt.Printf("source side fed by %q (%v)\n", e.Source, ok)
	// Output:
	// nodes: 3
	// edges: 2
	// source side fed by "doc" (true)
}
