package crossview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"

	"github.com/theirongolddev/crosstab/internal/tui/theme"
)

// KeyMap defines the grid keybindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Clear    key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap is the stock binding set.
var DefaultKeyMap = KeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first cell")),
	End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last cell")),
	Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.PageUp, k.PageDown, k.Home, k.End},
		{k.Clear, k.Reload, k.Help, k.Quit},
	}
}

// mouseHelp lists the pointer gestures.
var mouseHelp = [][2]string{
	{"drag", "scroll the grid"},
	{"drag and release fast", "fling"},
	{"drag past an edge", "rubber-band over-scroll"},
	{"drag the left or top edge out fully", "pull to refresh"},
	{"click a cell", "highlight its path"},
	{"wheel", "scroll one cell"},
}

// KeyReference returns the bindings and gestures as a markdown document.
func KeyReference(k KeyMap) string {
	var b strings.Builder
	b.WriteString("# crosstab\n\n## Keys\n\n| Key | Action |\n| --- | --- |\n")
	for _, group := range k.FullHelp() {
		for _, kb := range group {
			h := kb.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\n## Mouse\n\n| Gesture | Action |\n| --- | --- |\n")
	for _, m := range mouseHelp {
		fmt.Fprintf(&b, "| %s | %s |\n", m[0], m[1])
	}
	return b.String()
}

// RenderMarkdown renders md for the terminal at width columns in the glamour
// style matching t. It falls back to the raw text when rendering fails.
func RenderMarkdown(md string, width int, t theme.Theme) string {
	style := "dark"
	switch t.Name {
	case theme.Light.Name:
		style = "light"
	case theme.Plain.Name:
		style = "notty"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
