package theme

import (
	"os"
	"testing"
)

func withDetector(t *testing.T, detector func() bool) {
	original := detectDarkBackground
	detectDarkBackground = detector
	resetAutoTheme()
	t.Cleanup(func() {
		detectDarkBackground = original
		resetAutoTheme()
	})
}

// unsetenv removes key for the rest of the test; t.Setenv registers the
// restore.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("Unsetenv(%q): %v", key, err)
	}
}

func TestCurrentAutoDetection(t *testing.T) {
	tests := []struct {
		name string
		dark bool
		want Theme
	}{
		{"dark background", true, Dark},
		{"light background", false, Light},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CROSSTAB_THEME", "auto")
			t.Setenv("CROSSTAB_NO_COLOR", "0")
			withDetector(t, func() bool { return tt.dark })

			if got := Current(); got.Name != tt.want.Name {
				t.Errorf("Current() = %q, want %q", got.Name, tt.want.Name)
			}
		})
	}
}

func TestFromNameExplicit(t *testing.T) {
	t.Setenv("CROSSTAB_NO_COLOR", "0")
	withDetector(t, func() bool { return true })

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"Mocha", "dark"},
		{"light", "light"},
		{"latte", "light"},
		{"plain", "plain"},
		{"", "dark"},
		{"unknown", "dark"},
	}
	for _, tt := range tests {
		if got := FromName(tt.name); got.Name != tt.want {
			t.Errorf("FromName(%q) = %q, want %q", tt.name, got.Name, tt.want)
		}
	}
}

func TestNoColor(t *testing.T) {
	tests := []struct {
		name     string
		override string
		noColor  bool
		want     bool
	}{
		{"unset", "", false, false},
		{"NO_COLOR", "", true, true},
		{"forced on", "0", true, false},
		{"forced off", "1", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CROSSTAB_NO_COLOR", tt.override)
			if tt.noColor {
				t.Setenv("NO_COLOR", "1")
			} else {
				unsetenv(t, "NO_COLOR")
			}
			if got := NoColorEnabled(); got != tt.want {
				t.Errorf("NoColorEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectorPanicFallsBackToDark(t *testing.T) {
	t.Setenv("CROSSTAB_NO_COLOR", "0")
	withDetector(t, func() bool { panic("no tty") })

	if got := FromName("auto"); got.Name != "dark" {
		t.Errorf("FromName(auto) after panic = %q, want dark", got.Name)
	}
}

func TestNewStylesUsesPalette(t *testing.T) {
	s := NewStyles(Dark)
	if got := s.Path.GetBackground(); got != Dark.Path {
		t.Errorf("Path background = %v, want %v", got, Dark.Path)
	}
	if got := s.Error.GetForeground(); got != Dark.Error {
		t.Errorf("Error foreground = %v, want %v", got, Dark.Error)
	}
}
