package synth

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/framefold/remap/pkg/cache"
)

// Dispatcher launches preview synthesis in the background. Evaluation never
// blocks on image generation: a pass that needs a preview fires a request
// and carries on, and the preview lands via the deliver callback when ready.
//
// One request per instance is in flight at a time. A dispatch for the same
// instance with a changed prompt supersedes the running request, and the
// superseded result is discarded on arrival.
type Dispatcher struct {
	client Client
	cache  cache.Cache
	logger *log.Logger

	mu       sync.Mutex
	inflight map[string]flight
	wg       sync.WaitGroup
}

type flight struct {
	requestID string
	prompt    string
}

// NewDispatcher creates a dispatcher. A nil cache disables preview reuse.
func NewDispatcher(client Client, previews cache.Cache, logger *log.Logger) *Dispatcher {
	if previews == nil {
		previews = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Dispatcher{
		client:   client,
		cache:    previews,
		logger:   logger,
		inflight: make(map[string]flight),
	}
}

// InFlight reports whether a synthesis request is running for the instance.
func (d *Dispatcher) InFlight(nodeID string, index int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.inflight[instanceKey(nodeID, index)]
	return ok
}

// Dispatch requests a preview for the instance. A cached preview is
// delivered synchronously. Otherwise synthesis runs in a goroutine and
// deliver is called with the data URI on success; failures are logged and
// swallowed, leaving the instance without a preview until the next pass.
func (d *Dispatcher) Dispatch(ctx context.Context, nodeID string, index int, req Request, deliver func(dataURI string)) {
	if req.Prompt == "" {
		return
	}

	key := cache.PreviewKey(req.Prompt, req.AspectW, req.AspectH)
	if data, hit, err := d.cache.Get(ctx, key); err == nil && hit {
		deliver(string(data))
		return
	}

	ik := instanceKey(nodeID, index)
	requestID := uuid.NewString()

	d.mu.Lock()
	if running, ok := d.inflight[ik]; ok {
		if running.prompt == req.Prompt {
			d.mu.Unlock()
			return
		}
		// Prompt changed mid-flight: the new request takes over the slot
		// and the old result is dropped when it arrives.
	}
	d.inflight[ik] = flight{requestID: requestID, prompt: req.Prompt}
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		result, err := d.client.Generate(ctx, req)

		d.mu.Lock()
		current, ok := d.inflight[ik]
		stale := !ok || current.requestID != requestID
		if !stale {
			delete(d.inflight, ik)
		}
		d.mu.Unlock()

		if stale {
			d.logger.Debug("discarding superseded preview", "node", nodeID, "instance", index)
			return
		}
		if err != nil {
			d.logger.Warn("preview synthesis failed", "node", nodeID, "instance", index, "error", err)
			return
		}

		if err := d.cache.Set(ctx, key, []byte(result.DataURI), cache.TTLPreview); err != nil {
			d.logger.Warn("preview cache write failed", "error", err)
		}
		deliver(result.DataURI)
	}()
}

// Wait blocks until all in-flight requests have finished. Used on shutdown
// and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func instanceKey(nodeID string, index int) string {
	return fmt.Sprintf("%s/%d", nodeID, index)
}
