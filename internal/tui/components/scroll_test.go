package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestGridScrollState_Indicator(t *testing.T) {
	tests := []struct {
		name     string
		state    GridScrollState
		expected string
	}{
		{
			name: "all visible",
			state: GridScrollState{
				Rows: AxisState{0, 4, 5},
				Cols: AxisState{0, 2, 3},
			},
			expected: "",
		},
		{
			name:     "empty grid",
			state:    GridScrollState{Rows: AxisState{0, -1, 0}, Cols: AxisState{0, -1, 0}},
			expected: "",
		},
		{
			name: "origin of a large grid",
			state: GridScrollState{
				Rows: AxisState{0, 4, 30},
				Cols: AxisState{0, 3, 30},
			},
			expected: "▼▶",
		},
		{
			name: "far corner",
			state: GridScrollState{
				Rows: AxisState{25, 29, 30},
				Cols: AxisState{26, 29, 30},
			},
			expected: "◀▲",
		},
		{
			name: "middle",
			state: GridScrollState{
				Rows: AxisState{10, 14, 30},
				Cols: AxisState{10, 13, 30},
			},
			expected: "◀▲▼▶",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Indicator(); got != tt.expected {
				t.Errorf("Indicator() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAxisStateSpan(t *testing.T) {
	tests := []struct {
		state AxisState
		want  string
	}{
		{AxisState{0, 4, 30}, "1-5/30"},
		{AxisState{0, -1, 0}, "0/0"},
		{AxisState{29, 29, 30}, "30-30/30"},
	}
	for _, tt := range tests {
		if got := tt.state.span(); got != tt.want {
			t.Errorf("span(%+v) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestRenderScrollIndicator(t *testing.T) {
	state := GridScrollState{
		Rows: AxisState{0, 4, 30},
		Cols: AxisState{0, 3, 30},
	}

	tests := []struct {
		name     string
		opts     ScrollIndicatorOptions
		contains []string
	}{
		{"arrows only", ScrollIndicatorOptions{State: state}, []string{"▼▶"}},
		{"wide", ScrollIndicatorOptions{State: state, Width: 40, ShowCount: true}, []string{"rows 1-5/30", "cols 1-4/30", "▼▶"}},
		{"narrow", ScrollIndicatorOptions{State: state, Width: 20, ShowCount: true}, []string{"r1-5 c1-4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderScrollIndicator(tt.opts)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("RenderScrollIndicator() = %q, want it to contain %q", got, want)
				}
			}
		})
	}

	if got := RenderScrollIndicator(ScrollIndicatorOptions{State: GridScrollState{}, ShowCount: true}); got != "" {
		t.Errorf("RenderScrollIndicator(empty) = %q, want empty", got)
	}
}

func TestScrollFooterRightAligns(t *testing.T) {
	state := GridScrollState{
		Rows: AxisState{0, 4, 30},
		Cols: AxisState{0, 3, 30},
	}
	got := ScrollFooter(state, 60)
	if w := lipgloss.Width(got); w != 60 {
		t.Errorf("lipgloss.Width(ScrollFooter()) = %d, want 60", w)
	}
	if !strings.HasSuffix(strings.TrimRight(got, " "), "▼▶") && !strings.Contains(got, "▼▶") {
		t.Errorf("ScrollFooter() = %q, want indicator at the end", got)
	}
}
