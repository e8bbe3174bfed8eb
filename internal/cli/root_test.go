package cli

import "testing"

func TestSetVersion(t *testing.T) {
	tests := []struct {
		name                string
		version, sha, built string
	}{
		{"release build", "v1.2.0", "abc123", "2026-01-15"},
		{"dev build", "dev", "none", "unknown"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetVersion(tt.version, tt.sha, tt.built)

			if version != tt.version {
				t.Errorf("version = %q, want %q", version, tt.version)
			}
			if commit != tt.sha {
				t.Errorf("commit = %q, want %q", commit, tt.sha)
			}
			if date != tt.built {
				t.Errorf("date = %q, want %q", date, tt.built)
			}
		})
	}
}
