// Package crossview hosts a crosstab.View in a bubbletea program. Mouse
// drags, wheel and keys drive the view; frame ticks run flings and
// animations; widgets paint into a character canvas.
package crossview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/theirongolddev/crosstab/internal/config"
	"github.com/theirongolddev/crosstab/internal/crosstab"
	"github.com/theirongolddev/crosstab/internal/crosstab/gesture"
	"github.com/theirongolddev/crosstab/internal/crosstab/physics"
	"github.com/theirongolddev/crosstab/internal/dataset"
	"github.com/theirongolddev/crosstab/internal/events"
	"github.com/theirongolddev/crosstab/internal/tui/components"
	"github.com/theirongolddev/crosstab/internal/tui/icons"
	"github.com/theirongolddev/crosstab/internal/tui/layout"
	"github.com/theirongolddev/crosstab/internal/tui/theme"
)

const traceSource = "view"

// DatasetMsg carries a reloaded dataset, or the error that stopped it.
type DatasetMsg struct {
	Grid *dataset.Grid
	Err  error
}

// ConfigMsg carries a reloaded configuration.
type ConfigMsg struct {
	Config *config.Config
}

// frameMsg drives one animation frame.
type frameMsg time.Time

// Options configure a Model.
type Options struct {
	Config *config.Config
	Grid   *dataset.Grid
	// Path is the file Grid was loaded from. Empty for generated data.
	Path  string
	Trace *events.Logger
	// RefreshDelay is how long pull-to-refresh shows its loading state.
	RefreshDelay time.Duration
	// Now is the clock. Tests replace it.
	Now func() time.Time
}

// Model is the bubbletea model of the grid viewer.
type Model struct {
	cfg     *config.Config
	view    *crosstab.View
	adapter *gridAdapter
	puller  *puller
	mapper  Mapper
	theme   theme.Theme
	styles  *theme.Styles
	icons   icons.IconSet
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	trace   *events.Logger
	path    string
	now     func() time.Time

	width, height int
	lastFrame     time.Time
	ticking       bool
	spinning      bool
	pressed       bool
	showHelp      bool
	helpCache     string
	helpWidth     int

	status    string
	statusErr bool
}

// New builds the model. Call Init through tea.NewProgram.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	g := opts.Grid
	if g == nil {
		g = dataset.Demo(30, 30)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	trace := opts.Trace
	if trace == nil {
		trace = events.Nop()
	}

	ic := icons.Current()
	spin := spinner.Dot
	if ic == icons.ASCII {
		spin = spinner.Line
	}

	m := &Model{
		cfg:     cfg,
		adapter: newGridAdapter(g),
		icons:   ic,
		keys:    DefaultKeyMap,
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spin), spinner.WithStyle(lipgloss.NewStyle())),
		trace:   trace,
		path:    opts.Path,
		now:     now,
	}
	m.puller = newPuller(opts.RefreshDelay, func() string { return m.spinner.View() })
	m.puller.onRelease = func(ev crosstab.OverScrollEvent) {
		m.trace.Emit(events.EventOverScrollRelease, traceSource, events.OverScrollData{
			Slot:   ev.Slot.String(),
			Degree: ev.Degree,
		})
	}
	m.puller.onStart = func(crosstab.Slot) {
		m.setStatus("refreshing"+m.icons.Ellipsis, false)
	}
	m.applyConfig(cfg)
	return m
}

// applyConfig rebuilds the view with the options in cfg.
func (m *Model) applyConfig(cfg *config.Config) {
	if m.view != nil {
		m.view.SetAdapter(nil)
	}
	m.cfg = cfg
	m.mapper = MapperFor(cfg)
	m.theme = theme.FromName(cfg.Theme)
	st := theme.NewStyles(m.theme)
	m.styles = &st
	m.helpCache = ""

	m.view = newView(cfg, m.adapter)
	m.view.SetItemClickListener(crosstab.ClickFuncs{
		RowTitle:    m.onRowTitle,
		ColumnTitle: m.onColumnTitle,
		Content:     m.onContent,
	})
	m.view.SetFlingListener(func(_ *crosstab.View, vx, vy float64) {
		m.trace.Emit(events.EventFling, traceSource, events.FlingData{VX: vx, VY: vy})
	})
	m.view.SetOverScrollListener(m.puller)

	m.puller.loading = false
	pw, ph := m.gridPixels()
	sizes := m.slotSizes(pw, ph)
	for _, slot := range []crosstab.Slot{crosstab.SlotLeft, crosstab.SlotTop} {
		sz := sizes[slot]
		m.puller.add(m.view, slot, sz[0], sz[1])
	}
	m.view.Resize(pw, ph)
	m.view.Layout()
}

func (m *Model) onRowTitle(_ *crosstab.View, col int) {
	g := m.adapter.Grid()
	m.setStatus(fmt.Sprintf("column %s", g.ColumnLabel(col)), false)
	m.trace.Emit(events.EventClick, traceSource, events.ClickData{Kind: "row_title", Row: -1, Col: col})
}

func (m *Model) onColumnTitle(_ *crosstab.View, row int) {
	g := m.adapter.Grid()
	m.setStatus(fmt.Sprintf("row %s", g.RowLabel(row)), false)
	m.trace.Emit(events.EventClick, traceSource, events.ClickData{Kind: "column_title", Row: row, Col: -1})
}

func (m *Model) onContent(_ *crosstab.View, row, col int) {
	g := m.adapter.Grid()
	m.adapter.Select(row, col)
	m.setStatus(fmt.Sprintf("%s %s %s = %s", g.RowLabel(row), m.icons.Times, g.ColumnLabel(col), g.Value(row, col)), false)
	m.trace.Emit(events.EventClick, traceSource, events.ClickData{Kind: "content", Row: row, Col: col})
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

// gridLines is the number of terminal lines the grid occupies.
func (m *Model) gridLines() int {
	return layout.GridLines(m.height)
}

func (m *Model) gridPixels() (w, h int) {
	return m.mapper.Pixels(m.width, m.gridLines())
}

// slotSizes places the left indicator one cell wide along the left band and
// the top indicator one cell tall along the top band.
func (m *Model) slotSizes(pw, ph int) map[crosstab.Slot][2]int {
	b := m.view.Bands()
	return map[crosstab.Slot][2]int{
		crosstab.SlotLeft: {b.CellWidth, max(ph-b.CornerHeight, 0)},
		crosstab.SlotTop:  {max(pw-b.CornerWidth, 0), b.CellHeight},
	}
}

// CrossView returns the hosted view.
func (m *Model) CrossView() *crosstab.View { return m.view }

// Status returns the status bar message.
func (m *Model) Status() string { return m.status }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case frameMsg:
		m.ticking = false
		t := time.Time(msg)
		dt := t.Sub(m.lastFrame)
		m.lastFrame = t
		m.view.Advance(dt)

	case refreshDoneMsg:
		if m.puller.finish(m.view, msg.slot) {
			m.setStatus("refreshed", false)
			m.trace.Emit(events.EventRefresh, traceSource, events.RefreshData{Slot: msg.slot.String()})
			if cmd := m.reload(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}

	case spinner.TickMsg:
		if !m.puller.loading {
			m.spinning = false
			break
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case DatasetMsg:
		m.applyDataset(msg)

	case ConfigMsg:
		if msg.Config != nil {
			m.applyConfig(msg.Config)
			m.setStatus("config reloaded", false)
		}
	}

	cmds = append(cmds, m.settle())
	return m, tea.Batch(cmds...)
}

// settle runs a pending layout pass and keeps one frame tick in flight
// while the view is moving.
func (m *Model) settle() tea.Cmd {
	if m.view.NeedsLayout() {
		m.view.Layout()
	}
	cmds := m.puller.drain()
	if m.view.Active() && !m.ticking {
		m.ticking = true
		m.lastFrame = m.now()
		cmds = append(cmds, tea.Tick(m.cfg.FrameInterval(), func(t time.Time) tea.Msg {
			return frameMsg(t)
		}))
	}
	if m.puller.loading && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.help.Width = w
	pw, ph := m.gridPixels()
	m.view.Resize(pw, ph)
	m.puller.resize(m.view, m.slotSizes(pw, ph))
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	b := m.view.Bands()
	cw, ch := float64(b.CellWidth), float64(b.CellHeight)
	_, ph := m.view.Viewport()
	page := float64(max(ph-b.CornerHeight, b.CellHeight))

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case m.showHelp:
		// Any other key closes the help page.
		m.showHelp = false
	case key.Matches(msg, m.keys.Up):
		m.view.SmoothScrollBy(0, ch)
	case key.Matches(msg, m.keys.Down):
		m.view.SmoothScrollBy(0, -ch)
	case key.Matches(msg, m.keys.Left):
		m.view.SmoothScrollBy(cw, 0)
	case key.Matches(msg, m.keys.Right):
		m.view.SmoothScrollBy(-cw, 0)
	case key.Matches(msg, m.keys.PageUp):
		m.view.SmoothScrollBy(0, page)
	case key.Matches(msg, m.keys.PageDown):
		m.view.SmoothScrollBy(0, -page)
	case key.Matches(msg, m.keys.Home):
		m.view.ScrollTo(0, 0)
	case key.Matches(msg, m.keys.End):
		s := m.view.Shape()
		m.view.ScrollTo(s.Rows-1, s.Cols-1)
	case key.Matches(msg, m.keys.Clear):
		m.adapter.Select(-1, -1)
		m.setStatus("", false)
	case key.Matches(msg, m.keys.Reload):
		if cmd := m.reload(); cmd != nil {
			return cmd
		}
		m.view.Refresh()
		m.setStatus("refreshed", false)
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.showHelp {
		return
	}
	step := float64(max(m.cfg.Terminal.WheelStep, 1))
	b := m.view.Bands()
	cw, ch := float64(b.CellWidth)*step, float64(b.CellHeight)*step

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Shift {
			m.view.SmoothScrollBy(cw, 0)
		} else {
			m.view.SmoothScrollBy(0, ch)
		}
		return
	case tea.MouseButtonWheelDown:
		if msg.Shift {
			m.view.SmoothScrollBy(-cw, 0)
		} else {
			m.view.SmoothScrollBy(0, -ch)
		}
		return
	case tea.MouseButtonWheelLeft:
		m.view.SmoothScrollBy(cw, 0)
		return
	case tea.MouseButtonWheelRight:
		m.view.SmoothScrollBy(-cw, 0)
		return
	}

	x, y := m.mapper.Point(msg.X, msg.Y)
	ev := gesture.Event{X: x, Y: y, Time: m.now()}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y >= m.gridLines() {
			return
		}
		m.pressed = true
		ev.Action = gesture.Press
	case tea.MouseActionMotion:
		if !m.pressed {
			return
		}
		ev.Action = gesture.Move
	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		ev.Action = gesture.Release
	default:
		return
	}
	m.view.HandlePointer(ev)
}

// reload returns a command that reads the dataset file again, or nil for
// generated data.
func (m *Model) reload() tea.Cmd {
	if m.path == "" {
		return nil
	}
	path := m.path
	return func() tea.Msg {
		g, err := dataset.Load(path)
		return DatasetMsg{Grid: g, Err: err}
	}
}

func (m *Model) applyDataset(msg DatasetMsg) {
	if msg.Err != nil {
		m.setStatus(msg.Err.Error(), true)
		m.trace.Emit(events.EventError, traceSource, events.ErrorData{
			ErrorType: "dataset",
			Message:   msg.Err.Error(),
		})
		return
	}
	if msg.Grid == nil {
		return
	}
	m.puller.loading = false
	m.adapter.SetGrid(msg.Grid)
	m.view.Refresh()
	m.setStatus(fmt.Sprintf("reloaded %d%s%d", msg.Grid.RowCount(), m.icons.Times, msg.Grid.ColumnCount()), false)
	m.trace.Emit(events.EventDatasetReload, traceSource, events.ReloadData{
		Rows: msg.Grid.RowCount(),
		Cols: msg.Grid.ColumnCount(),
	})
}

// ScrollState reports the visible span of each axis.
func (m *Model) ScrollState() components.GridScrollState {
	vr := m.view.VisibleRange()
	s := m.view.Shape()
	return components.GridScrollState{
		Rows: components.AxisState{FirstVisible: vr.RowStart, LastVisible: vr.RowEnd, TotalItems: s.Rows},
		Cols: components.AxisState{FirstVisible: vr.ColStart, LastVisible: vr.ColEnd, TotalItems: s.Cols},
	}
}

// Canvas paints the grid area at the current size.
func (m *Model) Canvas() *Canvas {
	return Paint(m.view, m.mapper, m.styles, m.width, m.gridLines())
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	var body string
	if m.showHelp {
		body = m.helpPage()
	} else {
		body = m.Canvas().Render()
	}
	parts := []string{body}
	chrome := layout.Chrome(m.height)
	if chrome >= 1 {
		parts = append(parts, m.statusLine())
	}
	if chrome >= 2 {
		parts = append(parts, m.helpLine())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) helpLine() string {
	if layout.TierForWidth(m.width) == layout.TierNarrow {
		return m.styles.Help.Render("? help")
	}
	return m.help.View(m.keys)
}

// helpPage renders the key reference clipped to the grid area.
func (m *Model) helpPage() string {
	if m.helpCache == "" || m.helpWidth != m.width {
		m.helpCache = RenderMarkdown(KeyReference(m.keys), m.width, m.theme)
		m.helpWidth = m.width
	}
	lines := strings.Split(m.helpCache, "\n")
	n := m.gridLines()
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) statusLine() string {
	g := m.adapter.Grid()
	tier := layout.TierForWidth(m.width)
	left := m.styles.StatusBar.Render(fmt.Sprintf("%d%s%d", g.RowCount(), m.icons.Times, g.ColumnCount()))
	if tier == layout.TierWide {
		left = m.styles.StatusKey.Render(g.Source) + " " + left
		if state := m.view.State(); state != physics.Idle {
			left += " " + m.styles.StatusBar.Render(state.String())
		}
	}
	if m.status != "" && tier != layout.TierNarrow {
		st, text := m.styles.StatusBar, m.status
		if m.statusErr {
			st, text = m.styles.Error, m.icons.Warning+" "+text
		}
		left += "  " + st.Render(text)
	}
	if lipgloss.Width(left) > m.width {
		left = truncate.StringWithTail(left, uint(m.width), m.icons.Ellipsis)
	}
	rest := m.width - lipgloss.Width(left)
	if rest <= 0 {
		return left
	}
	return left + components.ScrollFooter(m.ScrollState(), rest)
}

var _ tea.Model = (*Model)(nil)
