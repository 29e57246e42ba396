package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// DefaultRetentionDays is the number of days to retain trace lines.
	DefaultRetentionDays = 7

	// RotationCheckInterval is how often to check for rotation (in events).
	RotationCheckInterval = 100
)

// Logger appends events to a JSONL file. A disabled Logger, including the
// zero value and a nil *Logger, accepts events and drops them.
type Logger struct {
	path          string
	retentionDays int
	enabled       bool
	now           func() time.Time

	mu           sync.Mutex
	file         *os.File
	eventCount   int
	lastRotation time.Time
}

// LoggerOptions configures the trace logger.
type LoggerOptions struct {
	Path          string
	RetentionDays int
	Enabled       bool
}

// NewLogger opens the trace file for appending. Lines older than the
// retention window are pruned on open and at most once a day after that.
func NewLogger(opts LoggerOptions) (*Logger, error) {
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = DefaultRetentionDays
	}

	l := &Logger{
		path:          opts.Path,
		retentionDays: opts.RetentionDays,
		enabled:       opts.Enabled && opts.Path != "",
		now:           time.Now,
	}
	if !l.enabled {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return nil, fmt.Errorf("creating trace directory: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.pruneLocked(); err != nil {
		log.Printf("Warning: trace rotation: %v", err)
	}
	l.lastRotation = l.now()
	if l.file == nil {
		f, err := openAppend(l.path)
		if err != nil {
			return nil, fmt.Errorf("opening trace file: %w", err)
		}
		l.file = f
	}
	return l, nil
}

// Nop returns a disabled logger.
func Nop() *Logger { return &Logger{} }

// Enabled reports whether events are written.
func (l *Logger) Enabled() bool { return l != nil && l.enabled }

// Path returns the trace file path.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// Log writes one event.
func (l *Logger) Log(event *Event) error {
	if !l.Enabled() {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}

	l.eventCount++
	if l.eventCount%RotationCheckInterval == 0 && l.now().Sub(l.lastRotation) >= 24*time.Hour {
		l.lastRotation = l.now()
		if err := l.pruneLocked(); err != nil {
			log.Printf("Warning: trace rotation: %v", err)
		}
	}
	return nil
}

// Emit builds an event from a data struct and logs it. Failures are
// reported to the standard logger.
func (l *Logger) Emit(eventType EventType, source string, data interface{}) {
	if !l.Enabled() {
		return
	}
	if err := l.Log(NewEvent(eventType, source, ToMap(data))); err != nil {
		log.Printf("Warning: trace: %v", err)
	}
}

// Close closes the trace file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// pruneLocked rewrites the trace without lines older than the retention
// window. Malformed lines are kept. Must be called with l.mu held.
func (l *Logger) pruneLocked() error {
	src, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening source file: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(l.path), "trace-rotate-*.jsonl")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	cutoff := l.now().AddDate(0, 0, -l.retentionDays)
	scanner := bufio.NewScanner(src)
	writer := bufio.NewWriter(tmp)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err == nil && !ev.Timestamp.After(cutoff) {
			continue
		}
		writer.Write(line)
		writer.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		tmp.Close()
		return fmt.Errorf("scanning trace file: %w", err)
	}
	if err := writer.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	renameErr := os.Rename(tmpPath, l.path)
	f, err := openAppend(l.path)
	if err == nil {
		l.file = f
	}
	if renameErr != nil {
		return fmt.Errorf("renaming temp file: %w", renameErr)
	}
	if err != nil {
		return fmt.Errorf("reopening trace file: %w", err)
	}
	return nil
}

// ReadAll returns every parseable event in the trace file at path.
func ReadAll(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, scanner.Err()
}
