package tempo

import "time"

// Scheduler holds at most one pending beat deadline. The control loop
// polls it once per tick; when the deadline falls inside the coming tick
// the scheduler waits out the remainder and reports that the next chord
// is due.
type Scheduler struct {
	metro   *Metronome
	tick    time.Duration
	sleep   func(time.Duration)
	trigger Beat
	pending bool
}

// NewScheduler returns a scheduler polled every tick. A nil sleep uses
// time.Sleep.
func NewScheduler(metro *Metronome, tick time.Duration, sleep func(time.Duration)) *Scheduler {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Scheduler{metro: metro, tick: tick, sleep: sleep}
}

// Start arms the trigger duration beats after the current position.
// A non-positive duration disarms it, leaving the chord to a manual advance.
func (s *Scheduler) Start(duration float64) {
	if duration <= 0 {
		s.Clear()
		return
	}
	s.trigger = s.metro.Position().Add(duration)
	s.pending = true
}

// Clear disarms the trigger.
func (s *Scheduler) Clear() {
	s.pending = false
}

// Pending returns the armed deadline, if any.
func (s *Scheduler) Pending() (Beat, bool) {
	return s.trigger, s.pending
}

// Poll reports whether the armed deadline is due within one tick. When it
// is, Poll blocks until the deadline and disarms the trigger, so each
// deadline is reported exactly once.
func (s *Scheduler) Poll() bool {
	if !s.pending {
		return false
	}
	ms := s.metro.TimeTo(s.trigger)
	if time.Duration(ms)*time.Millisecond >= s.tick {
		return false
	}
	if ms > 0 {
		s.sleep(time.Duration(ms) * time.Millisecond)
	}
	s.pending = false
	return true
}
