package recycle

import "slices"

// Handle is the part of a widget the recycler drives.
type Handle interface {
	comparable
	SetVisible(visible bool)
	Resize(w, h int)
}

// Provider returns the widget for key. reuse is a pooled widget the provider
// may update in place and return, or the zero value when the pool was empty.
// Returning a different widget discards reuse back into the pool.
type Provider[W Handle] func(key Key, reuse W) W

// Stats describes the outcome of one Sync.
type Stats struct {
	Recycled int // tracked widgets moved to the pool
	Reused   int // pooled widgets handed back by the provider
	Created  int // widgets the provider created fresh
}

// Space tracks the widgets of one band (top titles, left titles or content).
//
// A widget is in at most one of the tracker and the pool at any time.
type Space[W Handle] struct {
	name   string
	width  int
	height int

	tracked map[Key]W
	pool    []W
	created int
}

// NewSpace creates a space whose fresh widgets are sized w by h.
func NewSpace[W Handle](name string, w, h int) *Space[W] {
	return &Space[W]{
		name:    name,
		width:   w,
		height:  h,
		tracked: make(map[Key]W),
	}
}

// Name returns the space name.
func (s *Space[W]) Name() string { return s.name }

// CellSize returns the size fresh widgets are measured at.
func (s *Space[W]) CellSize() (w, h int) { return s.width, s.height }

// Sync reconciles the tracker with visible. Widgets whose key left the set
// are hidden and pooled; keys that entered it get a widget from provide,
// offered a pooled widget when one exists.
func (s *Space[W]) Sync(visible []Key, provide Provider[W]) Stats {
	var st Stats
	want := make(map[Key]struct{}, len(visible))
	for _, k := range visible {
		want[k] = struct{}{}
	}

	for _, k := range s.sortedKeys() {
		if _, ok := want[k]; ok {
			continue
		}
		s.release(s.tracked[k])
		delete(s.tracked, k)
		st.Recycled++
	}

	var zero W
	for _, k := range visible {
		if _, ok := s.tracked[k]; ok {
			continue
		}
		reuse, pooled := s.take()
		got := provide(k, reuse)
		if got == zero {
			if pooled {
				s.release(reuse)
			}
			continue
		}
		if pooled && got == reuse {
			st.Reused++
		} else {
			if pooled {
				s.release(reuse)
			}
			got.Resize(s.width, s.height)
			s.created++
			st.Created++
		}
		got.SetVisible(true)
		s.tracked[k] = got
	}
	return st
}

// take pops a pooled widget and makes it visible again.
func (s *Space[W]) take() (W, bool) {
	var zero W
	if len(s.pool) == 0 {
		return zero, false
	}
	w := s.pool[len(s.pool)-1]
	s.pool = s.pool[:len(s.pool)-1]
	w.SetVisible(true)
	return w, true
}

func (s *Space[W]) release(w W) {
	w.SetVisible(false)
	s.pool = append(s.pool, w)
}

// Lookup returns the widget tracked under k.
func (s *Space[W]) Lookup(k Key) (W, bool) {
	w, ok := s.tracked[k]
	return w, ok
}

// Len returns the number of tracked widgets.
func (s *Space[W]) Len() int { return len(s.tracked) }

// PoolLen returns the number of pooled widgets.
func (s *Space[W]) PoolLen() int { return len(s.pool) }

// Created returns how many fresh widgets this space has measured since the
// last Reset.
func (s *Space[W]) Created() int { return s.created }

// Keys returns the tracked keys in ascending order.
func (s *Space[W]) Keys() []Key { return s.sortedKeys() }

// Each calls fn for every tracked widget in ascending key order.
func (s *Space[W]) Each(fn func(Key, W)) {
	for _, k := range s.sortedKeys() {
		fn(k, s.tracked[k])
	}
}

// Pooled returns a copy of the pool.
func (s *Space[W]) Pooled() []W {
	return slices.Clone(s.pool)
}

// Reset hides every widget and forgets them all.
func (s *Space[W]) Reset() {
	for _, w := range s.tracked {
		w.SetVisible(false)
	}
	clear(s.tracked)
	s.pool = nil
	s.created = 0
}

func (s *Space[W]) sortedKeys() []Key {
	keys := make([]Key, 0, len(s.tracked))
	for k := range s.tracked {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
