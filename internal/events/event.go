// Package events records cross table interactions to a JSONL trace file.
// Each line is one Event; the file is pruned to a retention window.
package events

import (
	"time"
)

// EventType names what happened.
type EventType string

const (
	// EventClick is a tap resolved to a title or content cell.
	EventClick EventType = "click"
	// EventFling is a release fast enough to start a fling.
	EventFling EventType = "fling"
	// EventOverScrollRelease is a release while content sat past a bound.
	EventOverScrollRelease EventType = "overscroll_release"
	// EventRefresh is a pull-to-refresh that started loading.
	EventRefresh EventType = "refresh"
	// EventDatasetReload is a dataset file reloaded from disk.
	EventDatasetReload EventType = "dataset_reload"
	// EventError records a failure worth keeping next to the interactions.
	EventError EventType = "error"
)

// Event is a single trace line.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	// Source is the dataset the view was showing.
	Source string                 `json:"source,omitempty"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, source string, data map[string]interface{}) *Event {
	return &Event{
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Source:    source,
		Data:      data,
	}
}

// ClickData describes a tap. Row or Col is -1 on a title.
type ClickData struct {
	Kind string
	Row  int
	Col  int
}

// FlingData describes the release velocity in px/s.
type FlingData struct {
	VX, VY float64
}

// OverScrollData describes one side released past its bound.
type OverScrollData struct {
	Slot   string
	Degree float64
}

// RefreshData describes a pull-to-refresh.
type RefreshData struct {
	Slot string
}

// ReloadData describes a dataset reload.
type ReloadData struct {
	Rows, Cols int
}

// ErrorData describes a recorded failure.
type ErrorData struct {
	ErrorType string
	Message   string
}

// ToMap converts a data struct to the map stored on an Event.
func ToMap(v interface{}) map[string]interface{} {
	switch d := v.(type) {
	case ClickData:
		return map[string]interface{}{"kind": d.Kind, "row": d.Row, "col": d.Col}
	case FlingData:
		return map[string]interface{}{"vx": d.VX, "vy": d.VY}
	case OverScrollData:
		return map[string]interface{}{"slot": d.Slot, "degree": d.Degree}
	case RefreshData:
		return map[string]interface{}{"slot": d.Slot}
	case ReloadData:
		return map[string]interface{}{"rows": d.Rows, "cols": d.Cols}
	case ErrorData:
		return map[string]interface{}{"error_type": d.ErrorType, "message": d.Message}
	case map[string]interface{}:
		return d
	default:
		return nil
	}
}
