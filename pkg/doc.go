// Package pkg provides the core libraries for Remap document fitting.
//
// # Overview
//
// Remap evaluates node-editor graphs that fit layered source documents into
// named template slots. The pkg directory is organized into three main areas:
//
//  1. Domain logic (layer trees, templates, geometric transform, gating)
//  2. Infrastructure (caching, payload registry, sessions, credits)
//  3. Orchestration (pipeline, project loading, preview synthesis)
//
// # Architecture
//
// The typical data flow through Remap:
//
//	Project file (graph + documents + templates)
//	         ↓
//	    [flow] package (node graph, handles, edges)
//	         ↓
//	    [resolve] package (walk edges to upstream contexts)
//	         ↓
//	    [engine] package (fit, clamp, gate)
//	         ↓
//	    [registry] package (published payloads per handle)
//
// # Quick Start
//
// Evaluate a remap node against an in-memory store:
//
//	import (
//	    "context"
//	    "github.com/framefold/remap/pkg/pipeline"
//	    "github.com/framefold/remap/pkg/project"
//	    "github.com/framefold/remap/pkg/registry"
//	)
//
//	proj, _ := project.Load("project.toml")
//	store := registry.NewMemoryStore()
//	proj.Publish(store)
//
//	runner := pipeline.NewRunner(proj.Graph, store, nil)
//	defer runner.Close()
//
//	result, _ := runner.EvaluateNode(context.Background(), "fit-hero")
//
// # Main Packages
//
// ## Domain Logic
//
// [layer] - Layer tree model: bounds, pixel layers, groups, documents, and
// per-instance remap strategies (scale, anchor, overrides, generative intent).
//
// [template] - Slot templates naming the target regions a document is fitted
// into, with validation and JSON round-tripping.
//
// [engine] - The geometric fit itself: uniform scale, anchoring, vertical
// clamping with bleed, plus the generative gate that decides whether a fill
// needs user confirmation before it is published.
//
// [flow] - Node graph with typed handles and edges, DOT/SVG export.
//
// [resolve] - Handle resolution: walks edges backwards from a node's inputs
// to the payloads published on upstream output handles.
//
// ## Infrastructure
//
// [registry] - Publish/subscribe payload store keyed by node and handle, with
// structural change detection, an optional Redis mirror, and durable
// per-node state (instance counts) in memory or MongoDB.
//
// [cache] - Preview caching with file, Redis, and null backends.
//
// [session] - Ephemeral per-instance UI state (confirmations, preview URLs).
//
// [credits] - Generation credit ledger with atomic spend.
//
// ## Orchestration
//
// [pipeline] - Runner orchestrating resolve, transform, gate side effects,
// billing, and payload publication for whole graphs or single nodes.
//
// [project] - Project file loading: graph topology, document bindings, and
// template assignments from TOML.
//
// [synth] - Preview synthesis clients (OpenAI images, deterministic mock)
// and the asynchronous dispatcher that dedupes and supersedes requests.
//
// [observability] - Pluggable hooks for engine, cache, and synthesis events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/engine/...   # Specific package
//
// [layer]: https://pkg.go.dev/github.com/framefold/remap/pkg/layer
// [template]: https://pkg.go.dev/github.com/framefold/remap/pkg/template
// [engine]: https://pkg.go.dev/github.com/framefold/remap/pkg/engine
// [flow]: https://pkg.go.dev/github.com/framefold/remap/pkg/flow
// [resolve]: https://pkg.go.dev/github.com/framefold/remap/pkg/resolve
// [registry]: https://pkg.go.dev/github.com/framefold/remap/pkg/registry
// [cache]: https://pkg.go.dev/github.com/framefold/remap/pkg/cache
// [session]: https://pkg.go.dev/github.com/framefold/remap/pkg/session
// [credits]: https://pkg.go.dev/github.com/framefold/remap/pkg/credits
// [pipeline]: https://pkg.go.dev/github.com/framefold/remap/pkg/pipeline
// [project]: https://pkg.go.dev/github.com/framefold/remap/pkg/project
// [synth]: https://pkg.go.dev/github.com/framefold/remap/pkg/synth
// [observability]: https://pkg.go.dev/github.com/framefold/remap/pkg/observability
package pkg
