package otel

// The drain goroutine is the only reader of l.ch and the only writer to l.w.
// l.mu guards the ring pointer alone and is released before Push.

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abelbrown/mpkio/internal/toggle"
)

// queueSize bounds events waiting for the drain goroutine.
const queueSize = 1024

type queued struct {
	line []byte
	ev   Event
}

// Logger writes events as JSONL from a background goroutine. Emit never
// blocks: when the queue is full or the logger is closed the event is
// counted as dropped.
type Logger struct {
	mu        sync.Mutex
	ring      *RingBuffer
	sessionID string
	ch        chan queued
	w         io.Writer
	dropped   atomic.Uint64
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewLogger starts a Logger writing to w. Call Close to flush.
func NewLogger(w io.Writer) *Logger {
	var sid [8]byte
	_, _ = rand.Read(sid[:])

	l := &Logger{
		sessionID: fmt.Sprintf("%x", sid[:]),
		ch:        make(chan queued, queueSize),
		w:         w,
		done:      make(chan struct{}),
	}
	go l.drain()
	return l
}

// NewNullLogger discards output but still feeds an attached ring buffer.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

func (l *Logger) drain() {
	defer close(l.done)
	for q := range l.ch {
		if _, err := l.w.Write(q.line); err != nil {
			l.dropped.Add(1)
		}

		l.mu.Lock()
		ring := l.ring
		l.mu.Unlock()

		if ring != nil {
			ring.Push(q.ev)
		}
	}
}

// SessionID identifies this process run in every event.
func (l *Logger) SessionID() string { return l.sessionID }

// Emit queues e, stamping Time (if zero) and SessionID. Safe to call
// concurrently with Close.
func (l *Logger) Emit(e Event) {
	defer func() {
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.sessionID

	line, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}
	line = append(line, '\n')

	select {
	case l.ch <- queued{line: line, ev: e}:
	default:
		l.dropped.Add(1)
	}
}

// Info emits an info-level event.
func (l *Logger) Info(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

// Warn emits a warn-level event.
func (l *Logger) Warn(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelWarn, Kind: kind, Comp: comp, Msg: msg})
}

// Error emits an error-level event. A nil err is logged as empty.
func (l *Logger) Error(kind EventKind, comp string, err error) {
	var msg string
	if err != nil {
		msg = err.Error()
	}
	l.Emit(Event{Level: LevelError, Kind: kind, Comp: comp, Err: msg})
}

// Toggle records how a group resolved a click. Unchanged outcomes are not
// recorded.
func (l *Logger) Toggle(g *toggle.Group, outcome toggle.Outcome) {
	var kind EventKind
	level := LevelDebug
	switch outcome {
	case toggle.Switched:
		kind = KindToggleSwitch
	case toggle.Held:
		kind = KindToggleHold
	case toggle.Degenerate:
		kind, level = KindToggleDegenerate, LevelWarn
	default:
		return
	}
	l.Emit(Event{
		Level: level,
		Kind:  kind,
		Comp:  "dialog",
		Group: g.Name(),
		Flag:  g.ActiveName(),
		Mask:  g.Mask().Format(g.Len()),
	})
}

// SetRingBuffer attaches a ring buffer for live inspection.
func (l *Logger) SetRingBuffer(ring *RingBuffer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ring = ring
}

// Dropped returns how many events were lost.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close drains pending events and stops the writer. Later Emits are dropped.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.ch)
		<-l.done

		if d := l.dropped.Load(); d > 0 {
			fmt.Fprintf(os.Stderr, "mpkio: %d events dropped during session %s\n", d, l.sessionID)
		}
	})
}
