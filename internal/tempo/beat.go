package tempo

import (
	"math"
	"time"
)

// DefaultBPM is the tempo before any tap or sequence override.
const DefaultBPM = 120.0

// Beat is a position in beats, split into whole beats and the fraction
// carried towards the next one.
type Beat struct {
	Whole int64
	Frac  float64
}

// Add advances the position by beats, carrying fractional overflow.
func (b Beat) Add(beats float64) Beat {
	whole := math.Floor(beats)
	b.Whole += int64(whole)
	b.Frac += beats - whole
	if b.Frac >= 1 {
		carry := math.Floor(b.Frac)
		b.Whole += int64(carry)
		b.Frac -= carry
	}
	return b
}

// Sub returns b - o in beats.
func (b Beat) Sub(o Beat) float64 {
	return float64(b.Whole-o.Whole) + (b.Frac - o.Frac)
}

// Metronome is a beat clock running at the current BPM. Tempo changes
// only affect time after the change.
type Metronome struct {
	timer  *Timer
	bpm    float64
	pos    Beat
	synced uint32
}

// NewMetronome starts a beat clock at beat zero and DefaultBPM.
func NewMetronome(timer *Timer) *Metronome {
	return &Metronome{timer: timer, bpm: DefaultBPM, synced: timer.Age()}
}

// BPM returns the current tempo.
func (m *Metronome) BPM() float64 {
	return m.bpm
}

// SetBPM changes the tempo. Non-positive values are ignored.
func (m *Metronome) SetBPM(bpm float64) {
	if bpm <= 0 {
		return
	}
	m.Sync()
	m.bpm = bpm
}

// Sync moves the beat position up to the current time.
func (m *Metronome) Sync() {
	age := m.timer.Age()
	elapsed := age - m.synced
	m.synced = age
	if elapsed > 0 {
		m.pos = m.pos.Add(float64(elapsed) * m.bpm / 60000)
	}
}

// Position returns the beat position at the current time.
func (m *Metronome) Position() Beat {
	m.Sync()
	return m.pos
}

// BeatsToMs converts a beat count to whole milliseconds at the current tempo.
func (m *Metronome) BeatsToMs(beats float64) uint32 {
	if beats <= 0 {
		return 0
	}
	return uint32(beats * 60000 / m.bpm)
}

// BeatsToDuration is BeatsToMs as a time.Duration.
func (m *Metronome) BeatsToDuration(beats float64) time.Duration {
	return time.Duration(m.BeatsToMs(beats)) * time.Millisecond
}

// TimeTo returns the milliseconds until target, negative once it has passed.
func (m *Metronome) TimeTo(target Beat) int {
	m.Sync()
	return int(math.Floor(target.Sub(m.pos) * 60000 / m.bpm))
}
