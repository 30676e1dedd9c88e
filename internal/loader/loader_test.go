package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/chordtap/internal/logger"
	"github.com/leandrodaf/chordtap/internal/sequence"
)

const setlist = `
name: Intro
loop: 1
tap: true
program: 12
bpm: 96
chords:
  - C
  - Xyz
  - Am7: {lift: true, break: -0.5, delay: 1, beats: 4}
  - F: {octave: -1}
  - C: {voice: {4: 1}, double: {0: -1}}
  - [not, a, chord]
---
chords: [G]
program: none
---
- just a list
---
name: Outro
`

func load(t *testing.T, text string) *sequence.Program {
	t.Helper()
	p, err := New(logger.NewNopLogger()).Load(strings.NewReader(text))
	require.NoError(t, err)
	return p
}

func TestLoadSetlist(t *testing.T) {
	p := load(t, setlist)
	require.Equal(t, 3, p.Len())
	seqs := p.Sequences()

	intro := seqs[0]
	assert.Equal(t, "Intro", intro.Name)
	assert.Equal(t, 1, intro.Loop)
	assert.True(t, intro.Tap)
	assert.Equal(t, 12, intro.Program)
	assert.Equal(t, 96.0, intro.BPM)

	chords := intro.Chords()
	require.Len(t, chords, 4, "Xyz and the list entry are skipped")
	assert.Equal(t, []string{"C", "Am7", "F", "C"},
		[]string{chords[0].Name, chords[1].Name, chords[2].Name, chords[3].Name})

	am7 := chords[1]
	assert.True(t, am7.Lift)
	assert.Equal(t, -0.5, am7.Broken)
	assert.Equal(t, 1.0, am7.Delay)
	assert.Equal(t, 4.0, am7.Beats)

	assert.Equal(t, []int{53, 57, 60}, chords[2].Notes())
	assert.Equal(t, []int{48, 60, 67, 76}, chords[3].Notes())

	untitled := seqs[1]
	assert.Equal(t, sequence.DefaultName, untitled.Name)
	assert.Equal(t, sequence.NoProgram, untitled.Program)
	assert.Equal(t, 1, untitled.Len())
	assert.Zero(t, untitled.BPM)

	outro := seqs[2]
	assert.Equal(t, "Outro", outro.Name)
	assert.Equal(t, sequence.NoProgram, outro.Program)
	assert.Zero(t, outro.Len())
}

func TestLoadSkipsInvalidProgramNumber(t *testing.T) {
	p := load(t, "name: A\nprogram: loud\n---\nname: B\nprogram: 0\n")
	require.Equal(t, 1, p.Len())
	assert.Equal(t, "B", p.Sequences()[0].Name)
	assert.Equal(t, 0, p.Sequences()[0].Program)
}

func TestLoadCapsChords(t *testing.T) {
	var b strings.Builder
	b.WriteString("name: Long\nchords:\n")
	for i := 0; i < sequence.MaxChords+5; i++ {
		b.WriteString("  - D\n")
	}
	p := load(t, b.String())
	assert.Equal(t, sequence.MaxChords, p.Sequences()[0].Len())
}

func TestLoadEmpty(t *testing.T) {
	assert.Zero(t, load(t, "").Len())
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := New(logger.NewNopLogger()).Load(strings.NewReader("name: [unclosed\n"))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.yaml")
	require.NoError(t, os.WriteFile(path, []byte(setlist), 0o600))

	p, err := New(logger.NewNopLogger()).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Len())

	_, err = New(logger.NewNopLogger()).LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
