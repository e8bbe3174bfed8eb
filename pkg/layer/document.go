package layer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Document is the serialized form of one parsed layered document: a named
// layer tree plus the bounds of the full composition. This is the canonical
// interchange format between the parser, the engine, and project files.
type Document struct {
	Name   string `json:"name"`
	Bounds Rect   `json:"bounds"`
	Root   *Node  `json:"root"`
}

// ReadDocument decodes a JSON document from an io.Reader and validates the
// layer tree. Use ReadDocumentFile for files.
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	if err := doc.Bounds.Validate(); err != nil {
		return Document{}, fmt.Errorf("document %q: %w", doc.Name, err)
	}
	if doc.Root != nil {
		if err := doc.Root.Validate(); err != nil {
			return Document{}, fmt.Errorf("document %q: %w", doc.Name, err)
		}
	}
	return doc, nil
}

// ReadDocumentFile reads a JSON file and returns the decoded document.
func ReadDocumentFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// WriteDocument writes a document as indented JSON to an io.Writer.
func WriteDocument(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteDocumentFile writes a document to a JSON file.
// The file is created with 0644 permissions.
func WriteDocumentFile(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(doc, f)
}
