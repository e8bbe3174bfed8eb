package synth

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/framefold/remap/pkg/errors"
)

// MockClient is a deterministic Client for tests and offline runs. The
// returned data URI encodes the prompt and aspect, so assertions can tell
// previews apart without a real image backend.
type MockClient struct {
	// Err, when set, is returned by every Generate call.
	Err error

	// Delay hook for tests that need to observe in-flight state.
	OnGenerate func(Request)
}

// Generate returns a synthetic data URI derived from the request.
func (m *MockClient) Generate(_ context.Context, req Request) (Result, error) {
	if m.OnGenerate != nil {
		m.OnGenerate(req)
	}
	if m.Err != nil {
		return Result{}, m.Err
	}
	if req.Prompt == "" {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "synthesis prompt is empty")
	}
	body := base64.StdEncoding.EncodeToString(
		[]byte(fmt.Sprintf("%s@%dx%d", req.Prompt, req.AspectW, req.AspectH)))
	return Result{DataURI: "data:image/png;base64," + body}, nil
}

var _ Client = (*MockClient)(nil)
