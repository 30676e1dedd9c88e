// Package chord parses chord symbols such as "Cm7b9" or "D/F#" and expands
// them into absolute MIDI pitches.
package chord

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

const (
	// DefaultOctave is the octave a parsed chord starts in; C5 is pitch 60.
	DefaultOctave = 5
	// MinOctave and MaxOctave bound ShiftOctave.
	MinOctave = 0
	MaxOctave = 10

	numSlots = 12
)

// Quality is a set of quality flags. Minor-major is Minor|Major.
type Quality int

const (
	Dominant   Quality = 0
	Major      Quality = 1 << 0
	Minor      Quality = 1 << 1
	Diminished Quality = 1 << 2
	Augmented  Quality = 1 << 3
	Suspended  Quality = 1 << 4
	MinorMajor         = Minor | Major
)

// Has reports whether any of the flags in q2 are set.
func (q Quality) Has(q2 Quality) bool {
	return q&q2 != 0
}

func (q Quality) String() string {
	switch q {
	case Dominant:
		return "dominant"
	case Major:
		return "major"
	case Minor:
		return "minor"
	case MinorMajor:
		return "minor-major"
	case Diminished:
		return "diminished"
	case Augmented:
		return "augmented"
	case Suspended:
		return "suspended"
	}
	return "unknown"
}

// Voice says whether a pitch class sounds and in which octave relative to
// the chord's base octave. Octaves >= 0 are Present voices, negative
// octaves are BassBelow voices sounding under the root.
type Voice struct {
	on     bool
	octave int
}

// Absent is the zero Voice.
var Absent = Voice{}

// PresentAt returns a voice sounding shift octaves above the base octave.
func PresentAt(shift int) Voice {
	return Voice{on: true, octave: shift}
}

// BassBelow returns a voice sounding octaves below the root.
func BassBelow(octaves uint) Voice {
	return Voice{on: true, octave: -int(octaves)}
}

// VoiceFromPacked decodes the packed form: 0 absent, v > 0 present at
// octave v-1, v < 0 bass at v octaves.
func VoiceFromPacked(v int) Voice {
	switch {
	case v > 0:
		return PresentAt(v - 1)
	case v < 0:
		return Voice{on: true, octave: v}
	}
	return Absent
}

// Packed is the inverse of VoiceFromPacked.
func (v Voice) Packed() int {
	switch {
	case !v.on:
		return 0
	case v.octave >= 0:
		return v.octave + 1
	}
	return v.octave
}

// Sounding reports whether the voice is not Absent.
func (v Voice) Sounding() bool { return v.on }

// IsBass reports whether the voice sounds below the root.
func (v Voice) IsBass() bool { return v.on && v.octave < 0 }

// Octave returns the signed octave offset of the voice from the base octave.
func (v Voice) Octave() int { return v.octave }

// Shift moves a sounding voice by delta octaves. Absent voices stay absent.
func (v Voice) Shift(delta int) Voice {
	if !v.on {
		return v
	}
	return Voice{on: true, octave: v.octave + delta}
}

type doubledVoice struct {
	slot   int
	octave int
}

// Chord is a parsed chord symbol plus its playback modifiers.
type Chord struct {
	Name    string
	Root    int // pitch class 0-11
	Octave  int
	Quality Quality
	// Extension is the parsed extension number, 0 when none.
	Extension int
	// Bass is the slot of the explicit bass note, -1 when none.
	Bass int

	// Lift releases every sounding note before striking this chord.
	Lift bool
	// Delay in beats before the chord's attack.
	Delay float64
	// Broken is the spacing in beats between arpeggiated note-ons;
	// negative values arpeggiate downwards.
	Broken float64
	// Beats is how long the chord lasts before the next one is triggered
	// automatically; 0 waits for a manual advance.
	Beats float64

	voicing [numSlots]Voice
	doubles []doubledVoice
}

// Voice returns the voice at slot, a pitch class offset from the root.
func (c *Chord) Voice(slot int) Voice {
	if slot < 0 || slot >= numSlots {
		return Absent
	}
	return c.voicing[slot]
}

// SetVoice replaces the voice at slot.
func (c *Chord) SetVoice(slot int, v Voice) {
	if slot < 0 || slot >= numSlots {
		return
	}
	c.voicing[slot] = v
}

// Packed returns the voicing in its packed signed-integer form.
func (c *Chord) Packed() [numSlots]int {
	var out [numSlots]int
	for i, v := range c.voicing {
		out[i] = v.Packed()
	}
	return out
}

// Notes returns the absolute pitches of the chord in ascending order.
func (c *Chord) Notes() []int {
	base := 12*c.Octave + c.Root
	notes := make([]int, 0, numSlots+len(c.doubles))
	for slot, v := range c.voicing {
		if v.on {
			notes = append(notes, base+slot+12*v.octave)
		}
	}
	for _, d := range c.doubles {
		p := base + d.slot + 12*d.octave
		if !slices.Contains(notes, p) {
			notes = append(notes, p)
		}
	}
	slices.Sort(notes)
	return notes
}

// ShiftOctave moves the whole chord by delta octaves, clamped to
// [MinOctave, MaxOctave].
func (c *Chord) ShiftOctave(delta int) {
	c.Octave = clamp(c.Octave+delta, MinOctave, MaxOctave)
}

// ShiftNoteOctave moves the voice at slot by delta octaves. With replace
// false the voice stays where it is and a doubled voice is added at the
// shifted octave instead. Absent slots and a zero delta are ignored.
func (c *Chord) ShiftNoteOctave(slot, delta int, replace bool) {
	if slot < 0 || slot >= numSlots || delta == 0 || !c.voicing[slot].on {
		return
	}
	shifted := c.voicing[slot].Shift(delta)
	if replace {
		c.voicing[slot] = shifted
		return
	}
	c.doubles = append(c.doubles, doubledVoice{slot: slot, octave: shifted.octave})
}

// Clone returns a deep copy of the chord.
func (c *Chord) Clone() *Chord {
	cp := *c
	cp.doubles = slices.Clone(c.doubles)
	return &cp
}

func (c *Chord) String() string {
	return c.Name
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
