// Package synth generates ghost previews for slots that await confirmation.
// A preview is a draft image synthesized from the strategy prompt at the
// target slot's aspect ratio; it is advisory and never blocks evaluation.
package synth

import "context"

// Request describes one preview synthesis.
type Request struct {
	// Prompt is the strategy prompt driving generation. Required.
	Prompt string

	// AspectW and AspectH give the target slot's aspect ratio. The backend
	// picks the closest output shape it supports.
	AspectW int
	AspectH int
}

// Result is a finished preview.
type Result struct {
	// DataURI is the preview image as a data: URI, ready to embed in a
	// payload without a separate asset store.
	DataURI string
}

// Client produces preview images. Implementations must be safe for
// concurrent use.
type Client interface {
	Generate(ctx context.Context, req Request) (Result, error)
}
