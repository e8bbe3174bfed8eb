// Package pipeline orchestrates one evaluation pass: resolve each instance
// of a remap node, run the transform engine, apply the gate's side effects
// (preview synthesis, credit spend), and publish the resulting payloads.
//
// The Runner is the only component with side effects. The resolver and the
// engine underneath it are pure; everything stateful (sessions, credits,
// the payload registry, synthesis) is injected and owned by the caller.
package pipeline

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/framefold/remap/pkg/credits"
	"github.com/framefold/remap/pkg/engine"
	"github.com/framefold/remap/pkg/errors"
	"github.com/framefold/remap/pkg/flow"
	"github.com/framefold/remap/pkg/observability"
	"github.com/framefold/remap/pkg/registry"
	"github.com/framefold/remap/pkg/registry/nodestate"
	"github.com/framefold/remap/pkg/resolve"
	"github.com/framefold/remap/pkg/session"
	"github.com/framefold/remap/pkg/synth"
)

// Runner executes evaluation passes over remap nodes.
//
// The Runner is stateless across passes except for the injected stores.
// Multiple goroutines can evaluate different nodes on the same Runner; per
// entry there is a single logical writer, matching the registry's model.
type Runner struct {
	Graph      *flow.Graph
	Store      registry.Store
	Sessions   *session.Store
	Credits    *credits.Ledger
	Dispatcher *synth.Dispatcher // nil disables preview synthesis
	NodeState  nodestate.Store
	Options    engine.Options
	Logger     *log.Logger
}

// NewRunner creates a runner with in-memory defaults for every store not
// supplied later via the public fields.
func NewRunner(g *flow.Graph, store registry.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Graph:     g,
		Store:     store,
		Sessions:  session.NewStore(),
		Credits:   credits.NewLedger(credits.DefaultBalance),
		NodeState: nodestate.NewMemoryStore(),
		Logger:    logger,
	}
}

// InstanceResult is the outcome of evaluating one instance.
type InstanceResult struct {
	Index  int    `json:"index"`
	Handle string `json:"handle"`

	// Skipped is set when the instance was not ready. Skips are silent:
	// no payload is published and no error is reported.
	Skipped bool `json:"skipped,omitempty"`

	Payload engine.Payload `json:"payload"`
	Err     error          `json:"-"`

	// Error carries Err's message over the wire.
	Error string `json:"error,omitempty"`
}

// Stats summarizes one evaluation pass.
type Stats struct {
	Instances int           `json:"instances"`
	Published int           `json:"published"`
	Awaiting  int           `json:"awaiting"`
	Errored   int           `json:"errored"`
	Skipped   int           `json:"skipped"`
	Duration  time.Duration `json:"duration"`
}

// Result is the outcome of evaluating one node.
type Result struct {
	NodeID    string           `json:"node_id"`
	Instances []InstanceResult `json:"instances"`
	Stats     Stats            `json:"stats"`
}

// EvaluateNode runs one evaluation pass over every instance of the node.
// Per-instance failures are recorded in the result rather than aborting the
// pass; the returned error covers only unusable inputs (unknown node, wrong
// node type).
func (r *Runner) EvaluateNode(ctx context.Context, nodeID string) (*Result, error) {
	n := r.Graph.Node(nodeID)
	if n == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "node %q not found", nodeID)
	}
	if n.Type != flow.TypeRemap {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node %q is a %s node, not remap", nodeID, n.Type)
	}

	count, err := r.NodeState.InstanceCount(ctx, nodeID)
	if err != nil {
		r.Logger.Warn("instance count lookup failed, assuming default", "node", nodeID, "error", err)
		count = nodestate.DefaultInstanceCount
	}

	start := time.Now()
	observability.Engine().OnEvaluateStart(ctx, nodeID, count)

	resolver := resolve.New(r.Graph, r.Store, r.Store, r.Logger)
	result := &Result{NodeID: nodeID}
	result.Stats.Instances = count

	for _, inst := range resolver.ResolveAll(nodeID, count) {
		ir := r.evaluateInstance(ctx, nodeID, inst)
		if ir.Err != nil {
			ir.Error = ir.Err.Error()
		}
		result.Instances = append(result.Instances, ir)

		switch {
		case ir.Skipped:
			result.Stats.Skipped++
		case ir.Err != nil:
			result.Stats.Errored++
		case ir.Payload.Status == engine.StatusAwaitingConfirmation:
			result.Stats.Awaiting++
			result.Stats.Published++
		case ir.Payload.Status == engine.StatusError:
			result.Stats.Errored++
			result.Stats.Published++
		default:
			result.Stats.Published++
		}
	}

	result.Stats.Duration = time.Since(start)
	observability.Engine().OnEvaluateComplete(ctx, nodeID, result.Stats.Published, result.Stats.Duration, nil)

	r.Logger.Info("evaluated node",
		"node", nodeID,
		"instances", result.Stats.Instances,
		"published", result.Stats.Published,
		"awaiting", result.Stats.Awaiting,
		"duration", result.Stats.Duration)

	return result, nil
}

// EvaluateAll evaluates every remap node in the graph.
func (r *Runner) EvaluateAll(ctx context.Context) ([]*Result, error) {
	var results []*Result
	for _, n := range r.Graph.NodesOfType(flow.TypeRemap) {
		res, err := r.EvaluateNode(ctx, n.ID)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) evaluateInstance(ctx context.Context, nodeID string, inst resolve.Instance) InstanceResult {
	handle := flow.OutHandle(inst.Index)
	ir := InstanceResult{Index: inst.Index, Handle: handle}

	if !inst.Ready() {
		// Not ready is not an error: the user is still wiring the graph.
		// Any previously published payload is stale now.
		r.Store.RemovePayload(nodeID, handle)
		ir.Skipped = true
		return ir
	}

	in := engine.Input{
		SourceName:         inst.Source.Name,
		Tree:               inst.Source.Tree,
		SourceBounds:       inst.Source.Bounds,
		Strategy:           inst.Source.Strategy,
		TargetName:         inst.Target.Name,
		TargetBounds:       inst.Target.Bounds,
		Confirmed:          r.Sessions.IsConfirmed(nodeID, inst.Index),
		Credits:            r.Credits.Balance(),
		UpstreamPreviewURL: inst.Source.PreviewURL,
		LocalPreviewURL:    r.Sessions.Preview(nodeID, inst.Index),
	}

	p, err := engine.Transform(in, r.Options)
	if err != nil {
		r.Store.RemovePayload(nodeID, handle)
		ir.Err = errors.Wrap(errors.ErrCodeInvalidInput, err, "instance %d", inst.Index)
		r.Logger.Error("transform failed", "node", nodeID, "instance", inst.Index, "error", err)
		return ir
	}

	observability.Engine().OnTransform(ctx, nodeID, inst.Index, string(p.Status), p.Scale)

	switch p.Status {
	case engine.StatusAwaitingConfirmation:
		observability.Engine().OnGateAwait(ctx, nodeID, inst.Index)
		r.maybeDispatchPreview(ctx, nodeID, inst, p)

	case engine.StatusSuccess:
		if p.RequiresGeneration {
			p = r.settleApproval(ctx, nodeID, inst.Index, handle, p)
		}
	}

	r.Store.RegisterPayload(nodeID, handle, p)
	ir.Payload = p
	return ir
}

// settleApproval spends a credit for a freshly approved generation. A
// re-publication of an already paid-for approval does not bill again; the
// previous payload on the same handle tells the two apart. When the spend
// loses a race with another consumer the approval is downgraded to an error
// payload, mirroring the gate's own stale-credit branch.
func (r *Runner) settleApproval(ctx context.Context, nodeID string, index int, handle string, p engine.Payload) engine.Payload {
	prev, ok := r.Store.Payload(nodeID, handle)
	if ok && prev.Status == engine.StatusSuccess && prev.RequiresGeneration {
		return p
	}

	if err := r.Credits.Spend(1); err != nil {
		r.Logger.Warn("approval arrived after credits ran out", "node", nodeID, "instance", index)
		p.Status = engine.StatusError
		p.RequiresGeneration = false
		if g := p.GenerativeLayer(); g != nil {
			p.Layers = p.Layers[1:]
		}
		return p
	}

	observability.Engine().OnGateApproved(ctx, nodeID, index)
	r.Logger.Info("generation approved", "node", nodeID, "instance", index, "credits_left", r.Credits.Balance())
	return p
}

// maybeDispatchPreview fires ghost-preview synthesis for an awaiting
// instance that has no preview yet. Delivery lands in the session store and
// is picked up by the next pass; evaluation never blocks on it.
func (r *Runner) maybeDispatchPreview(ctx context.Context, nodeID string, inst resolve.Instance, p engine.Payload) {
	if r.Dispatcher == nil || p.PreviewURL != "" {
		return
	}

	prompt := p.Prompt
	if prompt == "" && inst.Source.Strategy != nil {
		prompt = inst.Source.Strategy.Prompt
	}
	if prompt == "" {
		return
	}

	observability.Synth().OnSynthStart(ctx, nodeID, inst.Index)
	req := synth.Request{
		Prompt:  prompt,
		AspectW: int(math.Round(inst.Target.Bounds.W)),
		AspectH: int(math.Round(inst.Target.Bounds.H)),
	}
	index := inst.Index
	r.Dispatcher.Dispatch(ctx, nodeID, index, req, func(dataURI string) {
		r.Sessions.SetPreview(nodeID, index, dataURI)
		observability.Synth().OnSynthComplete(ctx, nodeID, index, 0, nil)
	})
}

// Confirm records the user's approval for an instance. It rejects the
// confirmation up front when no credits remain, so the UI can surface the
// problem before the next pass runs.
func (r *Runner) Confirm(nodeID string, index int) error {
	if r.Credits.Balance() <= 0 {
		return errors.New(errors.ErrCodeInsufficientCredits, "no credits remaining")
	}
	r.Sessions.Confirm(nodeID, index)
	return nil
}

// InvalidateNode drops all session state and published payloads for a node.
// Called when the node's inputs change structurally: stale confirmations
// must not approve work the user never saw.
func (r *Runner) InvalidateNode(ctx context.Context, nodeID string) {
	r.Sessions.ClearNode(nodeID)
	count, err := r.NodeState.InstanceCount(ctx, nodeID)
	if err != nil {
		count = nodestate.DefaultInstanceCount
	}
	for i := 0; i < count; i++ {
		r.Store.RemovePayload(nodeID, flow.OutHandle(i))
	}
}

// Close waits for in-flight synthesis and releases the node state store.
func (r *Runner) Close() error {
	if r.Dispatcher != nil {
		r.Dispatcher.Wait()
	}
	if r.NodeState != nil {
		return r.NodeState.Close(context.Background())
	}
	return nil
}
