// Package watcher reports changes to individual files such as a dataset or
// the config file. Editors often save by writing a temporary file and
// renaming it over the original, so the watcher follows the parent directory
// and filters by name instead of watching the file inode.
package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when operations are called on a closed Watcher.
var ErrClosed = errors.New("watcher: watcher is closed")

// DefaultPollInterval is used when falling back to polling.
const DefaultPollInterval = time.Second

// EventType is a bit set of file changes.
type EventType uint32

const (
	// Create is reported when a watched file appears.
	Create EventType = 1 << iota
	// Write is reported when a watched file's content changes.
	Write
	// Remove is reported when a watched file disappears.
	Remove
	// Rename is reported when a watched file is renamed away.
	Rename
	// Chmod is reported when permissions change.
	Chmod
	// All events.
	All = Create | Write | Remove | Rename | Chmod
)

func (t EventType) String() string {
	if t == 0 {
		return "none"
	}
	names := []struct {
		bit  EventType
		name string
	}{{Create, "create"}, {Write, "write"}, {Remove, "remove"}, {Rename, "rename"}, {Chmod, "chmod"}}
	s := ""
	for _, n := range names {
		if t&n.bit == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n.name
	}
	return s
}

// Event is one change to a watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string
	Type EventType
}

// Handler receives a debounced batch of events.
type Handler func(events []Event)

// ErrorHandler is called when a watch error occurs.
type ErrorHandler func(err error)

type fileMeta struct {
	exists  bool
	modTime time.Time
	size    int64
	mode    os.FileMode
}

// Watcher watches a set of files for changes.
type Watcher struct {
	fs           *fsnotify.Watcher
	batch        *batcher
	debounce     time.Duration
	handler      Handler
	errorHandler ErrorHandler
	filter       EventType

	pollMode     bool
	pollInterval time.Duration
	closeCh      chan struct{}

	mu    sync.Mutex
	files map[string]fileMeta
	dirs  map[string]int
	// closed is guarded by mu.
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the quiet period used to coalesce events.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithEventFilter limits delivered events to the given types.
func WithEventFilter(filter EventType) Option {
	return func(w *Watcher) { w.filter = filter }
}

// WithErrorHandler sets the error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(w *Watcher) { w.errorHandler = h }
}

// WithPolling forces polling mode.
func WithPolling(force bool) Option {
	return func(w *Watcher) { w.pollMode = force }
}

// WithPollInterval sets the polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// New creates a Watcher. When fsnotify cannot be initialised the watcher
// polls instead and reports the reason to the error handler.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		debounce:     DefaultDebounceDuration,
		handler:      handler,
		filter:       All,
		pollInterval: DefaultPollInterval,
		files:        make(map[string]fileMeta),
		dirs:         make(map[string]int),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.batch = newBatcher(w.debounce, handler)

	if !w.pollMode {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			w.reportError(fmt.Errorf("fsnotify unavailable, using polling fallback: %w", err))
			w.pollMode = true
		} else {
			w.fs = fsw
		}
	}

	if w.pollMode {
		w.closeCh = make(chan struct{})
		go w.runPoll()
	} else {
		go w.run()
	}
	return w, nil
}

// Polling reports whether the watcher scans instead of using fsnotify.
func (w *Watcher) Polling() bool { return w.pollMode }

// Add starts watching the file at path. The file's directory must exist;
// the file itself may not exist yet.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if info, err := os.Stat(dir); err != nil {
		return err
	} else if !info.IsDir() {
		return fmt.Errorf("watcher: %s is not a directory", dir)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if _, ok := w.files[abs]; ok {
		return nil
	}
	if !w.pollMode && w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = stat(abs)
	return nil
}

// Remove stops watching path.
func (w *Watcher) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if _, ok := w.files[abs]; !ok {
		return nil
	}
	delete(w.files, abs)
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	if !w.pollMode {
		return w.fs.Remove(dir)
	}
	return nil
}

// Files returns the watched paths in sorted order.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Close stops the watcher. Pending events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.batch.stop()
	if w.pollMode {
		close(w.closeCh)
		return nil
	}
	return w.fs.Close()
}

func (w *Watcher) reportError(err error) {
	if w.errorHandler != nil {
		w.errorHandler(err)
	}
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

func typeFromOp(op fsnotify.Op) EventType {
	var t EventType
	if op.Has(fsnotify.Create) {
		t |= Create
	}
	if op.Has(fsnotify.Write) {
		t |= Write
	}
	if op.Has(fsnotify.Remove) {
		t |= Remove
	}
	if op.Has(fsnotify.Rename) {
		t |= Rename
	}
	if op.Has(fsnotify.Chmod) {
		t |= Chmod
	}
	return t
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	w.mu.Lock()
	_, tracked := w.files[path]
	if tracked {
		w.files[path] = stat(path)
	}
	w.mu.Unlock()
	if !tracked {
		return
	}
	w.emit(Event{Path: path, Type: typeFromOp(ev.Op)})
}

func (w *Watcher) emit(ev Event) {
	ev.Type &= w.filter
	if ev.Type == 0 {
		return
	}
	w.batch.add(ev)
}

func (w *Watcher) runPoll() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.pollOnce()
		case <-w.closeCh:
			return
		}
	}
}

// pollOnce compares every watched file with its last known state.
func (w *Watcher) pollOnce() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	w.mu.Unlock()

	sort.Strings(paths)
	for _, p := range paths {
		cur := stat(p)
		w.mu.Lock()
		prev, ok := w.files[p]
		if ok {
			w.files[p] = cur
		}
		w.mu.Unlock()
		if !ok {
			continue
		}
		if t := diffMeta(prev, cur); t != 0 {
			w.emit(Event{Path: p, Type: t})
		}
	}
}

func diffMeta(prev, cur fileMeta) EventType {
	switch {
	case !prev.exists && cur.exists:
		return Create
	case prev.exists && !cur.exists:
		return Remove
	case !cur.exists:
		return 0
	}
	var t EventType
	if !cur.modTime.Equal(prev.modTime) || cur.size != prev.size {
		t |= Write
	}
	if cur.mode != prev.mode {
		t |= Chmod
	}
	return t
}

func stat(path string) fileMeta {
	info, err := os.Stat(path)
	if err != nil {
		return fileMeta{}
	}
	return fileMeta{exists: true, modTime: info.ModTime(), size: info.Size(), mode: info.Mode()}
}
