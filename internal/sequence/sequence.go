// Package sequence holds the chord sequences of a program and walks
// through them during a performance.
package sequence

import (
	"errors"

	"github.com/leandrodaf/chordtap/internal/chord"
)

const (
	// MaxChords is the most chords a sequence holds.
	MaxChords = 64
	// MaxSequences is the most sequences a program holds.
	MaxSequences = 64

	// NoProgram means no program change is sent when the sequence starts.
	NoProgram = -1
	// DefaultName names sequences that do not carry one.
	DefaultName = "Untitled"
)

var (
	ErrTooManyChords    = errors.New("maximum number of chords reached")
	ErrTooManySequences = errors.New("maximum number of sequences reached")
)

// Sequence is an ordered list of chords with its playback settings.
type Sequence struct {
	Name string
	// Loop is how many extra passes are played after the first one.
	Loop int
	// Tap makes every advance count as a tempo tap.
	Tap bool
	// Program is sent as a program change on start, NoProgram for none.
	Program int
	// BPM overrides the tempo on start when positive.
	BPM float64

	chords    []*chord.Chord
	current   int
	loopsLeft int
}

// New returns an empty sequence.
func New(name string) *Sequence {
	if name == "" {
		name = DefaultName
	}
	return &Sequence{Name: name, Program: NoProgram, current: -1}
}

// Add appends c. It returns ErrTooManyChords once the sequence is full.
func (s *Sequence) Add(c *chord.Chord) error {
	if len(s.chords) >= MaxChords {
		return ErrTooManyChords
	}
	s.chords = append(s.chords, c)
	return nil
}

// Next moves to the following chord. After the last chord it starts over
// while loops are left, otherwise it reports false and stays put.
func (s *Sequence) Next() (*chord.Chord, bool) {
	if len(s.chords) == 0 {
		return nil, false
	}
	if s.current == -1 {
		s.loopsLeft = s.Loop
	}
	if s.current >= len(s.chords)-1 {
		if s.loopsLeft <= 0 {
			return nil, false
		}
		s.loopsLeft--
	}
	s.current = (s.current + 1) % len(s.chords)
	return s.chords[s.current], true
}

// Reset rewinds to before the first chord and restores the loop count.
func (s *Sequence) Reset() {
	s.current = -1
	s.loopsLeft = s.Loop
}

// IsReset reports whether no chord has been played since the last Reset.
func (s *Sequence) IsReset() bool {
	return s.current == -1
}

// Len returns the number of chords.
func (s *Sequence) Len() int {
	return len(s.chords)
}

// Chords returns the chords in order.
func (s *Sequence) Chords() []*chord.Chord {
	return s.chords
}
