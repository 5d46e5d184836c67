// Package toast keeps short-lived on-screen notifications.
package toast

import (
	"time"
)

// DefaultTTL is how long a toast stays on screen
const DefaultTTL = 3500 * time.Millisecond

// Severity defines message type for styling
type Severity uint8

const (
	Info Severity = iota
	Success
	Error
)

// Icon returns the glyph shown before the message
func (s Severity) Icon() rune {
	switch s {
	case Success:
		return '✓'
	case Error:
		return '✗'
	default:
		return 'i'
	}
}

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Toast is a single notification
type Toast struct {
	Message  string
	Severity Severity
	Expires  time.Time
}

// Text returns the message prefixed with its icon
func (t Toast) Text() string {
	return string(t.Severity.Icon()) + " " + t.Message
}

// Queue holds toasts until they expire. Not safe for concurrent use.
type Queue struct {
	ttl        time.Duration
	maxVisible int
	items      []Toast
}

// NewQueue creates a queue. A zero ttl uses DefaultTTL; maxVisible <= 0 means
// no limit.
func NewQueue(ttl time.Duration, maxVisible int) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{ttl: ttl, maxVisible: maxVisible}
}

// SetTTL changes the lifetime of toasts pushed from now on
func (q *Queue) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		q.ttl = ttl
	}
}

// SetMaxVisible changes the visible limit
func (q *Queue) SetMaxVisible(n int) {
	q.maxVisible = n
}

// Push adds a toast that expires ttl after now.
// When the queue is full the oldest toast is dropped.
func (q *Queue) Push(msg string, sev Severity, now time.Time) {
	q.items = append(q.items, Toast{Message: msg, Severity: sev, Expires: now.Add(q.ttl)})
	if q.maxVisible > 0 && len(q.items) > q.maxVisible {
		q.items = q.items[len(q.items)-q.maxVisible:]
	}
}

// Active drops expired toasts and returns the remaining ones, oldest first
func (q *Queue) Active(now time.Time) []Toast {
	live := q.items[:0]
	for _, t := range q.items {
		if now.Before(t.Expires) {
			live = append(live, t)
		}
	}
	q.items = live

	out := make([]Toast, len(live))
	copy(out, live)
	return out
}

// Len returns the number of queued toasts, including expired ones not yet pruned
func (q *Queue) Len() int {
	return len(q.items)
}
