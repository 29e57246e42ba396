package config

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/theirongolddev/crosstab/internal/watcher"
)

// Watch reloads the config at path whenever it changes and hands the new
// value to onChange. Invalid edits are logged and skipped so the previous
// config stays in effect. It returns a function that stops watching.
func Watch(path string, onChange func(*Config)) (func(), error) {
	if path == "" {
		path = DefaultPath()
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	w, err := watcher.New(func(events []watcher.Event) {
		cfg, err := LoadOrDefault(absPath)
		if err != nil {
			log.Printf("Error reloading config: %v", err)
			return
		}
		if onChange != nil {
			onChange(cfg)
		}
	},
		watcher.WithDebounceDuration(500*time.Millisecond),
		watcher.WithEventFilter(watcher.Create|watcher.Write|watcher.Remove|watcher.Rename),
		watcher.WithErrorHandler(func(err error) {
			log.Printf("Warning: config watcher: %v", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}

	if err := w.Add(absPath); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching config path %s: %w", absPath, err)
	}

	return func() {
		w.Close()
	}, nil
}
