package crossview

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/crosstab/internal/crosstab"
)

// Slot messages.
const (
	pullText    = "Pull to refresh"
	releaseText = "Release to refresh"
	loadingText = "Loading"
	doneText    = "Done"
)

// DefaultRefreshDelay is how long the loading state is held.
const DefaultRefreshDelay = time.Second

// refreshDoneMsg ends the loading state started by a release past a slot.
type refreshDoneMsg struct {
	slot crosstab.Slot
}

// puller drives pull-to-refresh on the slots it owns. A release that drags
// a slot out past its full size holds the content at that slot while the
// refresh runs; any other release bounces back.
type puller struct {
	slots   map[crosstab.Slot]*slotWidget
	delay   time.Duration
	spinner func() string

	loading bool
	active  crosstab.Slot

	// cmds are collected for the model to return from Update.
	cmds []tea.Cmd

	onRelease func(ev crosstab.OverScrollEvent)
	onStart   func(slot crosstab.Slot)
}

func newPuller(delay time.Duration, spinner func() string) *puller {
	if delay <= 0 {
		delay = DefaultRefreshDelay
	}
	return &puller{
		slots:   make(map[crosstab.Slot]*slotWidget),
		delay:   delay,
		spinner: spinner,
	}
}

// add creates the indicator for slot and installs it on v.
func (p *puller) add(v *crosstab.View, slot crosstab.Slot, w, h int) *slotWidget {
	sw := &slotWidget{slot: slot, text: pullText}
	sw.Resize(w, h)
	p.slots[slot] = sw
	v.SetOverScrollSlotWidget(slot, sw)
	return sw
}

// resize updates slot sizes and reinstalls them so the reach follows.
func (p *puller) resize(v *crosstab.View, sizes map[crosstab.Slot][2]int) {
	for slot, sz := range sizes {
		sw := p.slots[slot]
		if sw == nil {
			continue
		}
		if w, h := sw.Size(); w == sz[0] && h == sz[1] {
			continue
		}
		sw.Resize(sz[0], sz[1])
		v.SetOverScrollSlotWidget(slot, sw)
	}
}

func (p *puller) OnOverScrollBy(_ *crosstab.View, events []crosstab.OverScrollEvent) {
	if p.loading {
		return
	}
	for _, ev := range events {
		sw := p.slots[ev.Slot]
		if sw == nil {
			continue
		}
		sw.spinner = nil
		if ev.Degree > 1 {
			sw.text, sw.active = releaseText, true
		} else {
			sw.text, sw.active = pullText, false
		}
	}
}

func (p *puller) OnOverScrollRelease(v *crosstab.View, events []crosstab.OverScrollEvent) {
	if p.loading {
		return
	}
	for _, ev := range events {
		if p.onRelease != nil {
			p.onRelease(ev)
		}
	}
	for _, ev := range events {
		sw := p.slots[ev.Slot]
		if sw == nil || ev.Degree <= 1 {
			continue
		}
		p.start(v, ev.Slot, sw)
		break
	}
	if !p.loading {
		return
	}
	for _, ev := range events {
		if ev.Slot != p.active {
			v.HideOverScrollSlot(ev.Slot)
		}
	}
}

func (p *puller) start(v *crosstab.View, slot crosstab.Slot, sw *slotWidget) {
	p.loading = true
	p.active = slot
	v.DisableScrollAndBounce()
	v.StopFling()
	sw.text, sw.active = loadingText, true
	sw.spinner = p.spinner
	v.ShowOverScrollSlot(slot)
	p.cmds = append(p.cmds, tea.Tick(p.delay, func(time.Time) tea.Msg {
		return refreshDoneMsg{slot: slot}
	}))
	if p.onStart != nil {
		p.onStart(slot)
	}
}

// finish ends the loading state of slot. It reports whether a refresh was
// running there.
func (p *puller) finish(v *crosstab.View, slot crosstab.Slot) bool {
	if !p.loading || slot != p.active {
		return false
	}
	p.loading = false
	if sw := p.slots[slot]; sw != nil {
		sw.text, sw.active = doneText, false
		sw.spinner = nil
	}
	v.HideOverScrollSlot(slot)
	v.EnableTouchAndBounce()
	return true
}

// drain returns and clears the queued commands.
func (p *puller) drain() []tea.Cmd {
	cmds := p.cmds
	p.cmds = nil
	return cmds
}

var _ crosstab.OverScrollListener = (*puller)(nil)
