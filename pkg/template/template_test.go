package template

import (
	"testing"

	"github.com/framefold/remap/pkg/layer"
)

func TestMatch(t *testing.T) {
	tpl := Template{
		Name: "flyer",
		Containers: []Container{
			{Name: "hero", Bounds: layer.Rect{W: 100, H: 100}},
			{Name: "target-out-0", Bounds: layer.Rect{W: 50, H: 50}},
			{Name: "footer", OriginalName: "Footer Strip", Bounds: layer.Rect{Y: 150, W: 100, H: 20}},
		},
	}

	tests := []struct {
		name     string
		handle   string
		wantName string
		wantOK   bool
	}{
		{name: "ExactName", handle: "hero", wantName: "hero", wantOK: true},
		{name: "SlotBoundsPrefix", handle: "slot-bounds-footer", wantName: "footer", wantOK: true},
		// "target-out-0" matches a container name exactly, so exact-name
		// matching must win over index interpretation.
		{name: "ExactBeatsIndex", handle: "target-out-0", wantName: "target-out-0", wantOK: true},
		{name: "IndexedHandle", handle: "target-out-2", wantName: "footer", wantOK: true},
		{name: "IndexOutOfBounds", handle: "target-out-9"},
		{name: "IndexNegative", handle: "target-out--1"},
		{name: "IndexNotANumber", handle: "target-out-abc"},
		{name: "NoMatch", handle: "mystery"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := tpl.Match(tt.handle)
			if ok != tt.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.handle, ok, tt.wantOK)
			}
			if ok && c.Name != tt.wantName {
				t.Errorf("Match(%q) = %q, want %q", tt.handle, c.Name, tt.wantName)
			}
		})
	}
}

func TestMatchSingleContainerFallback(t *testing.T) {
	tpl := Template{
		Name:       "card",
		Containers: []Container{{Name: "only", Bounds: layer.Rect{W: 10, H: 10}}},
	}

	c, ok := tpl.Match("anything-at-all")
	if !ok || c.Name != "only" {
		t.Errorf("single-container template should match any handle, got %v %v", c, ok)
	}
}

func TestMatchEmptyTemplate(t *testing.T) {
	if _, ok := (Template{}).Match("hero"); ok {
		t.Error("empty template should never match")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		c    Container
		want string
	}{
		{name: "PrefersAlias", c: Container{Name: "slot_1", OriginalName: "Headline"}, want: "Headline"},
		{name: "FallsBackToName", c: Container{Name: "slot_1"}, want: "slot_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
