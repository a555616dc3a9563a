// Package otel records what mpkio did as typed events.
//
// Events are serialized as JSONL lines by an async Logger. An optional
// RingBuffer keeps the most recent events in memory for the dialog's debug
// overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind is dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Toggle group reconciliation
	KindToggleSwitch     EventKind = "toggle.switch"
	KindToggleHold       EventKind = "toggle.noop"
	KindToggleDegenerate EventKind = "toggle.degenerate"

	// Operator runs
	KindOpStart    EventKind = "op.start"
	KindOpComplete EventKind = "op.complete"
	KindOpError    EventKind = "op.error"
	KindOpCancel   EventKind = "op.cancel"

	// UI
	KindKeyPress EventKind = "ui.key"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"
)

// Event is the universal record. Every field except Kind and Time is optional.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "dialog", "convert", "cli"
	SessionID string         `json:"session_id,omitempty"`
	RunID     string         `json:"run_id,omitempty"`
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"`
	Op        string         `json:"op,omitempty"` // operator idname
	Path      string         `json:"path,omitempty"`
	Group     string         `json:"group,omitempty"`
	Flag      string         `json:"flag,omitempty"`
	Mask      string         `json:"mask,omitempty"` // e.g. 0b010
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON fills DurMs from Dur.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
