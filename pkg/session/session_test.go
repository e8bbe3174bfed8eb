package session

import "testing"

func TestConfirmLifecycle(t *testing.T) {
	s := NewStore()

	if s.IsConfirmed("map", 0) {
		t.Error("fresh instance should not be confirmed")
	}

	s.Confirm("map", 0)
	if !s.IsConfirmed("map", 0) {
		t.Error("expected confirmation")
	}
	// Confirmation is per instance.
	if s.IsConfirmed("map", 1) {
		t.Error("confirmation leaked to another instance")
	}

	s.Unconfirm("map", 0)
	if s.IsConfirmed("map", 0) {
		t.Error("expected confirmation withdrawn")
	}
}

func TestPreview(t *testing.T) {
	s := NewStore()

	if got := s.Preview("map", 0); got != "" {
		t.Errorf("Preview = %q, want empty", got)
	}

	s.SetPreview("map", 0, "data:image/png;base64,YQ==")
	if got := s.Preview("map", 0); got != "data:image/png;base64,YQ==" {
		t.Errorf("Preview = %q", got)
	}

	s.ClearInstance("map", 0)
	if got := s.Preview("map", 0); got != "" {
		t.Errorf("Preview after ClearInstance = %q, want empty", got)
	}
}

func TestClearNode(t *testing.T) {
	s := NewStore()
	s.Confirm("map", 0)
	s.Confirm("map", 1)
	s.SetPreview("map", 1, "data:image/png;base64,YQ==")
	s.Confirm("other", 0)

	s.ClearNode("map")

	if s.IsConfirmed("map", 0) || s.IsConfirmed("map", 1) {
		t.Error("ClearNode should drop confirmations")
	}
	if got := s.Preview("map", 1); got != "" {
		t.Errorf("Preview after ClearNode = %q, want empty", got)
	}
	// Other nodes keep their state.
	if !s.IsConfirmed("other", 0) {
		t.Error("ClearNode cleared an unrelated node")
	}
}
