package tempo

import "golang.org/x/exp/slices"

const (
	numTaps = 4
	// maxTapInterval drops intervals of 30 BPM and slower.
	maxTapInterval = 2000
)

// TapClock estimates a tempo from irregular taps. It keeps the last four
// intervals and reports the median, so a single stray tap barely moves it.
type TapClock struct {
	timer   *Timer
	taps    [numTaps]uint32
	current int
	lastTap uint32
	running bool
}

// NewTapClock returns a cold tap clock reading time from timer.
func NewTapClock(timer *Timer) *TapClock {
	tc := &TapClock{timer: timer}
	tc.Reset()
	return tc
}

// Reset forgets every interval and waits for a first tap.
func (tc *TapClock) Reset() {
	tc.taps = [numTaps]uint32{}
	tc.current = numTaps - 1
	tc.running = false
}

// Tap records a tap at the current time.
func (tc *TapClock) Tap() {
	age := tc.timer.Age()
	if tc.running {
		interval := age - tc.lastTap
		if interval < maxTapInterval {
			tc.current = (tc.current + 1) % numTaps
			tc.taps[tc.current] = interval
		}
	}
	tc.lastTap = age
	tc.running = true
}

// BPM returns 60000 over the median interval, or 0 before two taps landed
// within range.
func (tc *TapClock) BPM() float64 {
	taps := make([]uint32, 0, numTaps)
	for _, tap := range tc.taps {
		if tap > 0 {
			taps = append(taps, tap)
		}
	}
	if len(taps) == 0 {
		return 0
	}
	slices.Sort(taps)

	n := len(taps)
	median := float64(taps[n/2])
	if n%2 == 0 {
		median = (median + float64(taps[n/2-1])) / 2
	}
	return 60000 / median
}
