// Package engine implements the transform and gate engine: given one
// resolved (source, target) pair it computes scale and anchor, recursively
// transforms the source layer tree into target space with inherited deltas,
// per-layer overrides and boundary clamping, runs the generative decision
// gate, and assembles the instance payload.
//
// The engine is a pure function of its inputs. Re-running it on unchanged
// inputs yields a structurally identical payload, which is what lets the
// surrounding shell recompute every instance on every state change without
// diffing.
package engine

import (
	"io"

	"github.com/charmbracelet/log"
)

// Default values for the engine tunables. Both are configuration, not
// algorithm constants: deployments tune them via [Options] or the TOML
// config, never by editing call sites.
const (
	// DefaultMaxBoundaryViolationPercent is the tolerated vertical bleed
	// past the target slot edge, as a fraction of target height.
	DefaultMaxBoundaryViolationPercent = 0.05

	// DefaultStretchThreshold is the scale factor above which an implicit
	// generative strategy is escalated to user confirmation: past it the
	// target dimension is more than double the source on the binding axis.
	DefaultStretchThreshold = 2.0
)

// Options contains the engine tunables.
// The zero value is usable after SetDefaults.
type Options struct {
	// MaxBoundaryViolationPercent bounds how far a layer's vertical
	// position may bleed past the target slot, as a fraction of the
	// target height.
	MaxBoundaryViolationPercent float64 `json:"max_boundary_violation_percent,omitempty"`

	// StretchThreshold is the computed-scale cutoff beyond which
	// generation requires confirmation even without explicit intent.
	StretchThreshold float64 `json:"stretch_threshold,omitempty"`

	// Logger receives debug output. Defaults to a discard logger so the
	// engine stays quiet inside library callers.
	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset fields with default values.
// This method is idempotent.
func (o *Options) SetDefaults() {
	if o.MaxBoundaryViolationPercent <= 0 {
		o.MaxBoundaryViolationPercent = DefaultMaxBoundaryViolationPercent
	}
	if o.StretchThreshold <= 0 {
		o.StretchThreshold = DefaultStretchThreshold
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
