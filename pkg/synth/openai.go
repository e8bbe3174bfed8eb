package synth

import (
	"context"
	"fmt"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/framefold/remap/pkg/errors"
)

// Settings configures the OpenAI image backend.
type Settings struct {
	APIKey  string
	Model   string // defaults to dall-e-3
	BaseURL string // optional, for proxies and compatible endpoints
}

// OpenAIClient implements Client using the official openai-go SDK
// (image generations).
type OpenAIClient struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAIClient validates settings and builds the client.
func NewOpenAIClient(cfg Settings) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "openai api key missing; provide synth.api_key")
	}
	model := cfg.Model
	if model == "" {
		model = "dall-e-3"
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{model: model, opts: opts}, nil
}

// Generate synthesizes one preview image and returns it as a data URI.
// Transient API failures are retried with backoff.
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (Result, error) {
	if req.Prompt == "" {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "synthesis prompt is empty")
	}

	client := openai.NewClient(c.opts...)
	params := openai.ImageGenerateParams{
		Prompt:         req.Prompt,
		Model:          openai.ImageModel(c.model),
		Size:           sizeForAspect(req.AspectW, req.AspectH),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
		N:              openai.Int(1),
	}

	var b64 string
	err := retry(ctx, 3, time.Second, func() error {
		resp, err := client.Images.Generate(ctx, params)
		if err != nil {
			return &RetryableError{Err: err}
		}
		if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
			return errors.New(errors.ErrCodeSynthesisFailed, "openai returned no image data")
		}
		b64 = resp.Data[0].B64JSON
		return nil
	})
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeSynthesisFailed, err, "generate preview")
	}

	return Result{DataURI: fmt.Sprintf("data:image/png;base64,%s", b64)}, nil
}

// sizeForAspect maps the slot aspect to the closest output size the image
// API supports. Wide slots get landscape, tall slots portrait, anything
// near square gets the square size.
func sizeForAspect(w, h int) openai.ImageGenerateParamsSize {
	if w <= 0 || h <= 0 {
		return openai.ImageGenerateParamsSize1024x1024
	}
	ratio := float64(w) / float64(h)
	switch {
	case ratio >= 1.3:
		return openai.ImageGenerateParamsSize1792x1024
	case ratio <= 0.77:
		return openai.ImageGenerateParamsSize1024x1792
	default:
		return openai.ImageGenerateParamsSize1024x1024
	}
}

var _ Client = (*OpenAIClient)(nil)
