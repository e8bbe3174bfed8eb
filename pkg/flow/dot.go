package flow

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures node-graph diagram export.
type DOTOptions struct {
	// Detailed includes handle names on edge labels.
	// When false, edges are drawn bare.
	Detailed bool
}

// ToDOT converts an editor graph to Graphviz DOT format. The resulting DOT
// string can be rendered with [RenderSVG].
//
// Node shapes encode roles: document and template nodes are drawn as plain
// boxes, context nodes with dashed outlines (they republish another node's
// data), and remap nodes double-walled since they are the evaluation sites.
func ToDOT(g *Graph, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	nodes := g.Nodes()
	slices.SortFunc(nodes, func(a, b *Node) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	for _, n := range nodes {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		switch n.Type {
		case TypeContext:
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		case TypeRemap:
			attrs = append(attrs, "peripheries=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if opts.Detailed && (e.SourceHandle != "" || e.TargetHandle != "") {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, fontsize=10];\n",
				e.Source, e.Target, e.SourceHandle+" → "+e.TargetHandle)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
