package chord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoicePackedRoundTrip(t *testing.T) {
	for v := -3; v <= 3; v++ {
		assert.Equal(t, v, VoiceFromPacked(v).Packed(), "packed %d", v)
	}

	assert.False(t, Absent.Sounding())
	assert.Equal(t, 0, PresentAt(0).Octave())
	assert.Equal(t, 2, PresentAt(1).Packed())
	assert.Equal(t, -1, BassBelow(1).Packed())
	assert.True(t, BassBelow(2).IsBass())
	assert.False(t, PresentAt(0).IsBass())
}

func TestPackedVoicing(t *testing.T) {
	c := MustParse("C9/E")
	assert.Equal(t, [12]int{1, 0, 2, 0, -1, 0, 0, 1, 0, 0, 1, 0}, c.Packed())
}

func TestShiftOctaveRoundTrip(t *testing.T) {
	for _, symbol := range []string{"C", "Cm7", "D/F#", "G13"} {
		c := MustParse(symbol)
		before := c.Notes()

		c.ShiftOctave(2)
		shifted := c.Notes()
		for i := range before {
			assert.Equal(t, before[i]+24, shifted[i], symbol)
		}

		c.ShiftOctave(-2)
		assert.Equal(t, before, c.Notes(), symbol)
	}
}

func TestShiftOctaveClamps(t *testing.T) {
	c := MustParse("C")
	c.ShiftOctave(-20)
	assert.Equal(t, MinOctave, c.Octave)
	assert.Equal(t, []int{0, 4, 7}, c.Notes())

	c.ShiftOctave(40)
	assert.Equal(t, MaxOctave, c.Octave)
}

func TestShiftNoteOctaveReplace(t *testing.T) {
	cases := []struct {
		name   string
		packed int
		delta  int
		want   int
	}{
		{"up from base", 1, 1, 2},
		{"down from base into bass", 1, -1, -1},
		{"down two from base", 1, -2, -2},
		{"bass back to base", -1, 1, 1},
		{"bass up two", -1, 2, 2},
		{"deeper bass", -1, -1, -2},
		{"high voice down", 2, -1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := MustParse("C")
			c.SetVoice(4, VoiceFromPacked(tc.packed))
			c.ShiftNoteOctave(4, tc.delta, true)
			assert.Equal(t, tc.want, c.Voice(4).Packed())
		})
	}
}

func TestShiftNoteOctaveIgnoresAbsentAndZero(t *testing.T) {
	c := MustParse("C")
	before := c.Packed()

	c.ShiftNoteOctave(1, 1, true)
	c.ShiftNoteOctave(0, 0, true)
	c.ShiftNoteOctave(12, 1, true)
	c.ShiftNoteOctave(-1, 1, false)

	assert.Equal(t, before, c.Packed())
}

func TestShiftNoteOctaveDoubles(t *testing.T) {
	c := MustParse("C")
	c.ShiftNoteOctave(0, 1, false)
	c.ShiftNoteOctave(0, -1, false)
	c.ShiftNoteOctave(0, 1, false)

	assert.Equal(t, []int{48, 60, 64, 67, 72}, c.Notes())
	assert.Equal(t, 1, c.Voice(0).Packed())
}

func TestCloneIsIndependent(t *testing.T) {
	c := MustParse("C")
	cp := c.Clone()
	cp.ShiftNoteOctave(0, 1, false)
	cp.ShiftOctave(1)

	assert.Equal(t, []int{60, 64, 67}, c.Notes())
	assert.Equal(t, []int{72, 76, 79, 84}, cp.Notes())
}

func TestQualityString(t *testing.T) {
	assert.Equal(t, "minor-major", MinorMajor.String())
	assert.Equal(t, "dominant", Dominant.String())
	assert.True(t, MinorMajor.Has(Major))
	assert.False(t, Minor.Has(Major))
}
