package otel

import "sync"

// DefaultRingSize is the default ring buffer capacity.
const DefaultRingSize = 256

// RingBuffer keeps the last N events. Goroutine-safe.
type RingBuffer struct {
	mu   sync.Mutex
	buf  []Event
	next int  // slot the next Push writes
	full bool // buf has wrapped at least once
}

// NewRingBuffer creates a ring buffer holding size events.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{buf: make([]Event, size)}
}

// Push stores e, evicting the oldest event when full. Extra is copied so
// callers may reuse their map.
func (r *RingBuffer) Push(e Event) {
	if e.Extra != nil {
		cp := make(map[string]any, len(e.Extra))
		for k, v := range e.Extra {
			cp[k] = v
		}
		e.Extra = cp
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = e
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

// ordered returns the buffered events oldest first. Caller holds mu.
func (r *RingBuffer) ordered() []Event {
	if !r.full {
		return append([]Event(nil), r.buf[:r.next]...)
	}
	out := make([]Event, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

// Snapshot returns every buffered event, oldest first.
func (r *RingBuffer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.len() == 0 {
		return nil
	}
	return r.ordered()
}

// Last returns up to n of the newest events, oldest first.
func (r *RingBuffer) Last(n int) []Event {
	if n <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.ordered()
	if len(all) == 0 {
		return nil
	}
	if n < len(all) {
		all = all[len(all)-n:]
	}
	return all
}

func (r *RingBuffer) len() int {
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// Len returns the number of buffered events.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.len()
}

// Cap returns the buffer capacity.
func (r *RingBuffer) Cap() int { return len(r.buf) }

// Stats counts buffered events by kind.
func (r *RingBuffer) Stats() map[EventKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[EventKind]int)
	for _, e := range r.ordered() {
		counts[e.Kind]++
	}
	return counts
}
