package engine

import (
	"testing"

	"github.com/framefold/remap/pkg/layer"
)

func TestEvaluateGate(t *testing.T) {
	tests := []struct {
		name string
		in   GateInput
		want GateOutcome
	}{
		{
			name: "NoPromptNeverActivates",
			in:   GateInput{Confirmed: true, Credits: 100, ExplicitIntent: true, Scale: 10},
			want: GateSkip,
		},
		{
			name: "ConfirmedWithCredits",
			in:   GateInput{Prompt: "sky", Confirmed: true, Credits: 1},
			want: GateApproved,
		},
		{
			name: "ConfirmedNoCredits",
			in:   GateInput{Prompt: "sky", Confirmed: true, Credits: 0},
			want: GateInsufficientCredits,
		},
		{
			name: "ExplicitIntentUnconfirmed",
			in:   GateInput{Prompt: "sky", ExplicitIntent: true},
			want: GateAwaitConfirmation,
		},
		{
			name: "HighStretchUnconfirmed",
			in:   GateInput{Prompt: "sky", Scale: 2.5},
			want: GateAwaitConfirmation,
		},
		{
			name: "AtThresholdFallsThrough",
			in:   GateInput{Prompt: "sky", Scale: 2.0},
			want: GateSkip,
		},
		{
			name: "ImplicitLowStretchUnconfirmed",
			in:   GateInput{Prompt: "sky", Scale: 1.2},
			want: GateSkip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateGate(tt.in, Options{}); got != tt.want {
				t.Errorf("EvaluateGate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGateCustomStretchThreshold(t *testing.T) {
	in := GateInput{Prompt: "sky", Scale: 1.5}
	if got := EvaluateGate(in, Options{StretchThreshold: 1.2}); got != GateAwaitConfirmation {
		t.Errorf("EvaluateGate() = %v, want GateAwaitConfirmation with lowered threshold", got)
	}
}

func TestGateOutcomesInPayload(t *testing.T) {
	base := Input{
		Tree:         fullTree(),
		SourceBounds: layer.Rect{W: 100, H: 100},
		TargetBounds: layer.Rect{X: 0, Y: 0, W: 100, H: 100},
	}

	t.Run("ApprovedSplicesGenerativeLayer", func(t *testing.T) {
		in := base
		in.Strategy = &layer.Strategy{Prompt: "city at dusk"}
		in.Confirmed = true
		in.Credits = 3

		p, err := Transform(in, Options{})
		if err != nil {
			t.Fatalf("Transform: %v", err)
		}
		if p.Status != StatusSuccess || !p.RequiresGeneration {
			t.Fatalf("status = %v requiresGeneration = %v, want approved success", p.Status, p.RequiresGeneration)
		}
		gen := p.GenerativeLayer()
		if gen == nil {
			t.Fatal("generative layer missing")
		}
		// Prepended: renders as a background fill beneath the content.
		if p.Layers[0] != gen {
			t.Error("generative layer should be first in the sequence")
		}
		if gen.Bounds != in.TargetBounds {
			t.Errorf("generative layer bounds = %+v, want full target", gen.Bounds)
		}
		if gen.Prompt != "city at dusk" || p.Prompt != "city at dusk" {
			t.Errorf("prompt not captured: layer %q payload %q", gen.Prompt, p.Prompt)
		}
	})

	t.Run("AwaitingConfirmationHasNoGenerativeLayer", func(t *testing.T) {
		in := base
		in.Strategy = &layer.Strategy{Prompt: "city at dusk", ExplicitIntent: true}

		p, err := Transform(in, Options{})
		if err != nil {
			t.Fatalf("Transform: %v", err)
		}
		if p.Status != StatusAwaitingConfirmation || p.RequiresGeneration {
			t.Fatalf("status = %v requiresGeneration = %v, want pending", p.Status, p.RequiresGeneration)
		}
		if p.GenerativeLayer() != nil {
			t.Error("no generative layer may be injected before confirmation")
		}
		// The geometric transform is still complete.
		if p.Root() == nil || p.Root().Count() != 4 {
			t.Errorf("pending payload should carry the full transformed tree")
		}
	})

	t.Run("InsufficientCreditsIsErrorStatus", func(t *testing.T) {
		in := base
		in.Strategy = &layer.Strategy{Prompt: "city at dusk"}
		in.Confirmed = true
		in.Credits = 0

		p, err := Transform(in, Options{})
		if err != nil {
			t.Fatalf("Transform: %v", err)
		}
		if p.Status != StatusError || p.RequiresGeneration {
			t.Errorf("status = %v requiresGeneration = %v, want error without generation", p.Status, p.RequiresGeneration)
		}
		// Error payloads still carry the transformed tree for the UI.
		if p.Root() == nil {
			t.Error("error payload should carry the transformed tree")
		}
	})
}
