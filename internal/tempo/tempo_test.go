package tempo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(ms int) { c.t = c.t.Add(time.Duration(ms) * time.Millisecond) }

func tapAt(clock *fakeClock, tc *TapClock, offsets ...int) {
	last := 0
	for _, at := range offsets {
		clock.advance(at - last)
		last = at
		tc.Tap()
	}
}

func TestTimerAge(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.now)
	assert.Equal(t, uint32(0), timer.Age())

	clock.advance(1234)
	assert.Equal(t, uint32(1234), timer.Age())

	timer.Reset()
	assert.Equal(t, uint32(0), timer.Age())
}

func TestTapClockSteadyTaps(t *testing.T) {
	clock := newFakeClock()
	tc := NewTapClock(NewTimer(clock.now))

	tapAt(clock, tc, 0, 500, 1000, 1500)
	assert.InDelta(t, 120.0, tc.BPM(), 1e-9)
}

func TestTapClockMedianRejectsOutlier(t *testing.T) {
	clock := newFakeClock()
	tc := NewTapClock(NewTimer(clock.now))

	tapAt(clock, tc, 0, 500, 1000, 1500, 2300)
	assert.InDelta(t, 120.0, tc.BPM(), 1e-9)
}

func TestTapClockColdAndReset(t *testing.T) {
	clock := newFakeClock()
	tc := NewTapClock(NewTimer(clock.now))
	assert.Zero(t, tc.BPM())

	tapAt(clock, tc, 0)
	assert.Zero(t, tc.BPM(), "a single tap has no interval")

	tapAt(clock, tc, 0, 600)
	assert.InDelta(t, 100.0, tc.BPM(), 1e-9)

	tc.Reset()
	assert.Zero(t, tc.BPM())
	clock.advance(250)
	tc.Tap()
	assert.Zero(t, tc.BPM(), "the first tap after a reset only starts timing")
}

func TestTapClockIgnoresLongIntervals(t *testing.T) {
	clock := newFakeClock()
	tc := NewTapClock(NewTimer(clock.now))

	tapAt(clock, tc, 0, 2500)
	assert.Zero(t, tc.BPM())

	tapAt(clock, tc, 2500, 3250)
	assert.InDelta(t, 80.0, tc.BPM(), 1e-9)
}

func TestBeatAddCarries(t *testing.T) {
	b := Beat{Whole: 1, Frac: 0.75}.Add(1.5)
	assert.Equal(t, int64(3), b.Whole)
	assert.InDelta(t, 0.25, b.Frac, 1e-9)
	assert.InDelta(t, 2.25, b.Sub(Beat{Whole: 1}), 1e-9)
}

func TestMetronomeFollowsTempoChanges(t *testing.T) {
	clock := newFakeClock()
	m := NewMetronome(NewTimer(clock.now))
	assert.Equal(t, DefaultBPM, m.BPM())

	clock.advance(500)
	pos := m.Position()
	assert.Equal(t, int64(1), pos.Whole)
	assert.InDelta(t, 0, pos.Frac, 1e-9)

	m.SetBPM(60)
	clock.advance(1000)
	pos = m.Position()
	assert.Equal(t, int64(2), pos.Whole)

	m.SetBPM(0)
	assert.Equal(t, 60.0, m.BPM())

	assert.Equal(t, uint32(1000), m.BeatsToMs(1))
	assert.Equal(t, uint32(250), m.BeatsToMs(0.25))
	assert.Equal(t, uint32(0), m.BeatsToMs(-1))
	assert.Equal(t, 500*time.Millisecond, m.BeatsToDuration(0.5))

	assert.Equal(t, 1000, m.TimeTo(Beat{Whole: 3}))
	assert.Equal(t, -1000, m.TimeTo(Beat{Whole: 1}))
}

func TestSchedulerFiresOnceWithinTick(t *testing.T) {
	clock := newFakeClock()
	m := NewMetronome(NewTimer(clock.now))

	var slept []time.Duration
	sleep := func(d time.Duration) {
		slept = append(slept, d)
		clock.t = clock.t.Add(d)
	}
	s := NewScheduler(m, 8*time.Millisecond, sleep)

	assert.False(t, s.Poll(), "nothing armed")

	s.Start(1)
	_, pending := s.Pending()
	require.True(t, pending)

	assert.False(t, s.Poll())
	clock.advance(400)
	assert.False(t, s.Poll())

	clock.advance(95)
	assert.True(t, s.Poll())
	require.Len(t, slept, 1)
	assert.LessOrEqual(t, slept[0], 8*time.Millisecond)

	_, pending = s.Pending()
	assert.False(t, pending)
	assert.False(t, s.Poll())
}

func TestSchedulerLateDeadlineFiresWithoutSleep(t *testing.T) {
	clock := newFakeClock()
	m := NewMetronome(NewTimer(clock.now))
	sleeps := 0
	s := NewScheduler(m, 8*time.Millisecond, func(time.Duration) { sleeps++ })

	s.Start(0.5)
	clock.advance(2000)
	assert.True(t, s.Poll())
	assert.Zero(t, sleeps)
}

func TestSchedulerZeroDurationDisarms(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(NewMetronome(NewTimer(clock.now)), 8*time.Millisecond, nil)

	s.Start(2)
	s.Start(0)
	_, pending := s.Pending()
	assert.False(t, pending)

	s.Start(2)
	s.Clear()
	clock.advance(5000)
	assert.False(t, s.Poll())
}
