// Package project loads a project file: the editor graph plus the document
// trees, templates and per-node instance counts the registries need before
// an evaluation pass can run. Project files let the CLI and tests stand up
// a full editor state without the editing surface.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/framefold/remap/pkg/errors"
	"github.com/framefold/remap/pkg/flow"
	"github.com/framefold/remap/pkg/layer"
	"github.com/framefold/remap/pkg/registry"
	"github.com/framefold/remap/pkg/template"
)

// DefaultDocumentHandle is the handle a document node publishes its context
// on when the project file does not name one.
const DefaultDocumentHandle = "out"

// DocumentBinding attaches a layer document to a graph node. The document
// is either inline or referenced by path relative to the project file.
type DocumentBinding struct {
	// Handle the context is published on. Defaults to "out".
	Handle string `json:"handle,omitempty"`

	// File is a path to a document JSON file, relative to the project file.
	// Mutually exclusive with Document.
	File string `json:"file,omitempty"`

	// Document is an inline document.
	Document *layer.Document `json:"document,omitempty"`

	// Strategy is optional AI layout guidance attached to this source.
	Strategy *layer.Strategy `json:"strategy,omitempty"`

	// PreviewURL is an upstream-supplied ghost preview.
	PreviewURL string `json:"preview_url,omitempty"`
}

// Project is a fully loaded project: the graph plus everything the
// registries hold during an editing session.
type Project struct {
	Name      string
	Graph     *flow.Graph
	Documents map[string]DocumentBinding
	Templates map[string]template.Template
	Instances map[string]int
}

type projectJSON struct {
	Name      string                       `json:"name"`
	Nodes     []flow.Node                  `json:"nodes"`
	Edges     []flow.Edge                  `json:"edges"`
	Documents map[string]DocumentBinding   `json:"documents,omitempty"`
	Templates map[string]template.Template `json:"templates,omitempty"`
	Instances map[string]int               `json:"instances,omitempty"`
}

// Load reads and validates a project file. Document files referenced by
// path are resolved relative to the project file and loaded eagerly.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "read project %s", path)
	}

	var pj projectJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "parse project %s", path)
	}

	g := flow.New()
	for _, n := range pj.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "node %q", n.ID)
		}
	}
	for _, e := range pj.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "edge %s -> %s", e.Source, e.Target)
		}
	}

	p := &Project{
		Name:      pj.Name,
		Graph:     g,
		Documents: make(map[string]DocumentBinding),
		Templates: pj.Templates,
		Instances: pj.Instances,
	}
	if p.Templates == nil {
		p.Templates = make(map[string]template.Template)
	}
	if p.Instances == nil {
		p.Instances = make(map[string]int)
	}

	baseDir := filepath.Dir(path)
	for nodeID, binding := range pj.Documents {
		if g.Node(nodeID) == nil {
			return nil, errors.New(errors.ErrCodeInvalidProject, "document bound to unknown node %q", nodeID)
		}
		if binding.File != "" && binding.Document != nil {
			return nil, errors.New(errors.ErrCodeInvalidProject, "node %q binds both a file and an inline document", nodeID)
		}
		if binding.File != "" {
			doc, err := layer.ReadDocumentFile(filepath.Join(baseDir, binding.File))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "document for node %q", nodeID)
			}
			binding.Document = &doc
			binding.File = ""
		}
		if binding.Document == nil {
			return nil, errors.New(errors.ErrCodeInvalidProject, "node %q has no document", nodeID)
		}
		if binding.Handle == "" {
			binding.Handle = DefaultDocumentHandle
		}
		p.Documents[nodeID] = binding
	}

	for nodeID := range pj.Templates {
		if g.Node(nodeID) == nil {
			return nil, errors.New(errors.ErrCodeInvalidProject, "template bound to unknown node %q", nodeID)
		}
	}
	for nodeID, count := range pj.Instances {
		if g.Node(nodeID) == nil {
			return nil, errors.New(errors.ErrCodeInvalidProject, "instance count for unknown node %q", nodeID)
		}
		if count < 1 {
			return nil, errors.New(errors.ErrCodeInvalidProject, "node %q instance count must be >= 1", nodeID)
		}
	}

	return p, nil
}

// Publish pushes the project's documents and templates into the registry
// store, making every bound source and target resolvable.
func (p *Project) Publish(store registry.Store) {
	for nodeID, binding := range p.Documents {
		doc := binding.Document
		store.SetResolvedContext(nodeID, binding.Handle, registry.MappingContext{
			Name:          doc.Name,
			Tree:          doc.Root,
			Bounds:        doc.Bounds,
			Strategy:      binding.Strategy,
			PreviewURL:    binding.PreviewURL,
			ContentNodeID: nodeID,
		})
	}
	for nodeID, t := range p.Templates {
		store.SetTemplate(nodeID, t)
	}
}
