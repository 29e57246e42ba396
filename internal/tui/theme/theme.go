// Package theme holds the colour palettes and lipgloss styles of the
// terminal host.
package theme

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is a colour palette for the grid and the chrome around it.
type Theme struct {
	Name string

	Base     lipgloss.Color // Background
	Surface0 lipgloss.Color // Title bands
	Surface1 lipgloss.Color // Corner header
	Surface2 lipgloss.Color // Shadows

	Text    lipgloss.Color
	Subtext lipgloss.Color
	Overlay lipgloss.Color

	// CellA and CellB alternate across content cells.
	CellA lipgloss.Color
	CellB lipgloss.Color
	// Path marks the titles and cell of the last tap.
	Path lipgloss.Color

	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

// Dark is the default theme, taken from Catppuccin Mocha.
var Dark = Theme{
	Name:     "dark",
	Base:     lipgloss.Color("#1e1e2e"),
	Surface0: lipgloss.Color("#313244"),
	Surface1: lipgloss.Color("#45475a"),
	Surface2: lipgloss.Color("#11111b"),
	Text:     lipgloss.Color("#cdd6f4"),
	Subtext:  lipgloss.Color("#a6adc8"),
	Overlay:  lipgloss.Color("#6c7086"),
	CellA:    lipgloss.Color("#181825"),
	CellB:    lipgloss.Color("#1e1e2e"),
	Path:     lipgloss.Color("#cba6f7"),
	Primary:  lipgloss.Color("#89b4fa"),
	Success:  lipgloss.Color("#a6e3a1"),
	Warning:  lipgloss.Color("#f9e2af"),
	Error:    lipgloss.Color("#f38ba8"),
	Info:     lipgloss.Color("#89dceb"),
}

// Light is the theme for light terminals, taken from Catppuccin Latte.
var Light = Theme{
	Name:     "light",
	Base:     lipgloss.Color("#eff1f5"),
	Surface0: lipgloss.Color("#ccd0da"),
	Surface1: lipgloss.Color("#bcc0cc"),
	Surface2: lipgloss.Color("#acb0be"),
	Text:     lipgloss.Color("#4c4f69"),
	Subtext:  lipgloss.Color("#6c6f85"),
	Overlay:  lipgloss.Color("#7c7f93"),
	CellA:    lipgloss.Color("#e6e9ef"),
	CellB:    lipgloss.Color("#eff1f5"),
	Path:     lipgloss.Color("#8839ef"),
	Primary:  lipgloss.Color("#1e66f5"),
	Success:  lipgloss.Color("#40a02b"),
	Warning:  lipgloss.Color("#df8e1d"),
	Error:    lipgloss.Color("#d20f39"),
	Info:     lipgloss.Color("#04a5e5"),
}

// Plain uses the terminal's default colours everywhere.
var Plain = Theme{Name: "plain"}

// NoColorEnabled reports whether colour output is disabled. NO_COLOR
// disables colour when present with any value; CROSSTAB_NO_COLOR=0 forces
// it back on.
func NoColorEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("CROSSTAB_NO_COLOR"))) {
	case "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	}
	_, set := os.LookupEnv("NO_COLOR")
	return set
}

// FromName returns the theme called name. Unknown names and "auto" detect
// the terminal background.
func FromName(name string) Theme {
	if NoColorEnabled() {
		return Plain
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "plain", "none":
		return Plain
	case "dark", "mocha":
		return Dark
	case "light", "latte":
		return Light
	default:
		return autoTheme()
	}
}

// Current returns the theme named by CROSSTAB_THEME.
func Current() Theme {
	return FromName(os.Getenv("CROSSTAB_THEME"))
}

// detectDarkBackground is a variable for tests.
var detectDarkBackground = func() bool {
	return termenv.NewOutput(os.Stdout).HasDarkBackground()
}

var (
	cachedAutoTheme Theme
	autoThemeOnce   sync.Once
)

func resetAutoTheme() {
	autoThemeOnce = sync.Once{}
	cachedAutoTheme = Theme{}
}

func autoTheme() Theme {
	autoThemeOnce.Do(func() {
		cachedAutoTheme = Dark
		defer func() {
			if recover() != nil {
				cachedAutoTheme = Dark
			}
		}()
		if !detectDarkBackground() {
			cachedAutoTheme = Light
		}
	})
	return cachedAutoTheme
}

// Styles are the lipgloss styles the host paints with.
type Styles struct {
	Header      lipgloss.Style
	RowTitle    lipgloss.Style
	ColumnTitle lipgloss.Style
	CellA       lipgloss.Style
	CellB       lipgloss.Style
	Path        lipgloss.Style
	Shadow      lipgloss.Style
	Slot        lipgloss.Style
	SlotActive  lipgloss.Style

	StatusBar lipgloss.Style
	StatusKey lipgloss.Style
	Help      lipgloss.Style
	Error     lipgloss.Style
}

// NewStyles builds the styles for t.
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(t.Surface1).
			Foreground(t.Text).
			Bold(true),
		RowTitle: lipgloss.NewStyle().
			Background(t.Surface0).
			Foreground(t.Primary).
			Bold(true),
		ColumnTitle: lipgloss.NewStyle().
			Background(t.Surface0).
			Foreground(t.Info).
			Bold(true),
		CellA: lipgloss.NewStyle().
			Background(t.CellA).
			Foreground(t.Text),
		CellB: lipgloss.NewStyle().
			Background(t.CellB).
			Foreground(t.Text),
		Path: lipgloss.NewStyle().
			Background(t.Path).
			Foreground(t.Base).
			Bold(true),
		Shadow: lipgloss.NewStyle().
			Foreground(t.Surface2),
		Slot: lipgloss.NewStyle().
			Foreground(t.Subtext).
			Italic(true),
		SlotActive: lipgloss.NewStyle().
			Foreground(t.Success).
			Bold(true),
		StatusBar: lipgloss.NewStyle().
			Foreground(t.Subtext),
		StatusKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(t.Overlay),
		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),
	}
}

// DefaultStyles returns styles for the current theme.
func DefaultStyles() Styles {
	return NewStyles(Current())
}
