package engine

// GateOutcome is the generative decision gate's verdict for one instance.
type GateOutcome int

const (
	// GateSkip: no prompt, or implicit intent with low stretch and no
	// confirmation. The pure geometric result stands.
	GateSkip GateOutcome = iota

	// GateAwaitConfirmation: generation is wanted (explicit intent, or the
	// computed scale exceeds the stretch threshold) but the user has not
	// confirmed it yet.
	GateAwaitConfirmation

	// GateApproved: generation proceeds. A synthetic generative layer is
	// spliced beneath the geometric result.
	GateApproved

	// GateInsufficientCredits: the instance is confirmed but the balance
	// is empty. The confirm surface pre-checks credits, so this branch only
	// fires on stale confirmation state; it is kept reachable on purpose.
	GateInsufficientCredits
)

// GateInput is the state the gate decides on. All fields are snapshots
// captured at the start of the evaluation pass.
type GateInput struct {
	Prompt         string
	ExplicitIntent bool
	Scale          float64
	Confirmed      bool
	Credits        int
}

// EvaluateGate runs the deterministic decision gate. It is evaluated once
// per pass and never raises: every branch maps to a payload state.
func EvaluateGate(in GateInput, opts Options) GateOutcome {
	opts.SetDefaults()

	// The gate only exists for instances carrying a generative prompt.
	if in.Prompt == "" {
		return GateSkip
	}

	if in.Confirmed {
		if in.Credits > 0 {
			return GateApproved
		}
		return GateInsufficientCredits
	}

	if in.ExplicitIntent || in.Scale > opts.StretchThreshold {
		return GateAwaitConfirmation
	}

	return GateSkip
}
