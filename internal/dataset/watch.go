package dataset

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/theirongolddev/crosstab/internal/watcher"
)

// Watch reloads the dataset at path after every change and reports the
// result. A failed reload is passed along with a nil grid so the caller can
// keep showing the previous one. It returns a function that stops watching.
func Watch(path string, onChange func(*Grid, error)) (func(), error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving dataset path: %w", err)
	}

	w, err := watcher.New(func(events []watcher.Event) {
		g, err := Load(absPath)
		if onChange != nil {
			onChange(g, err)
		}
	},
		watcher.WithDebounceDuration(200*time.Millisecond),
		watcher.WithEventFilter(watcher.Create|watcher.Write|watcher.Rename),
		watcher.WithErrorHandler(func(err error) {
			log.Printf("Warning: dataset watcher: %v", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dataset watcher: %w", err)
	}
	if err := w.Add(absPath); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching dataset %s: %w", absPath, err)
	}
	return func() { w.Close() }, nil
}
