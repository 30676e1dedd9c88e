// Package tempo keeps musical time: a tap tempo clock, a beat clock that
// follows the current BPM and a scheduler that triggers chord changes on
// beat deadlines.
package tempo

import "time"

// Timer measures milliseconds since its last reset. It relies on the
// monotonic reading carried by time.Time.
type Timer struct {
	now   func() time.Time
	start time.Time
}

// NewTimer returns a running timer. A nil now uses time.Now.
func NewTimer(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	t := &Timer{now: now}
	t.Reset()
	return t
}

// Reset restarts the timer at zero.
func (t *Timer) Reset() {
	t.start = t.now()
}

// Age returns the whole milliseconds elapsed since the last reset.
func (t *Timer) Age() uint32 {
	return uint32(t.now().Sub(t.start) / time.Millisecond)
}
