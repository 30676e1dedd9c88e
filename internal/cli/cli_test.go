package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/chordtap/internal/chord"
	"github.com/leandrodaf/chordtap/internal/loader"
	"github.com/leandrodaf/chordtap/internal/logger"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	_, err := rootCmd.ExecuteC()
	return out.String(), err
}

func TestNotesPrintsPitches(t *testing.T) {
	out, err := execute(t, "notes", "--octave", "0", "C", "Em")
	require.NoError(t, err)
	assert.Equal(t, "C          60 64 67\nEm         64 67 71\n", out)
}

func TestNotesOctaveShift(t *testing.T) {
	out, err := execute(t, "notes", "--octave", "-1", "C")
	require.NoError(t, err)
	assert.Equal(t, "C          48 52 55\n", out)
}

func TestNotesReportsEveryInvalidSymbol(t *testing.T) {
	out, err := execute(t, "notes", "--octave", "0", "Xyz", "C", "Qm")
	require.Error(t, err)
	assert.ErrorIs(t, err, chord.ErrInvalidRoot)
	assert.Contains(t, err.Error(), "Xyz")
	assert.Contains(t, err.Error(), "Qm")
	assert.Contains(t, out, "C          60 64 67\n")
}

func TestPlayRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "run.log")

	_, err := execute(t, "play", "--channel", "17", "--log-file", logFile, "--log-level", "info", "x.yaml")
	assert.ErrorIs(t, err, ErrInvalidChannel)

	_, err = execute(t, "play", "--channel", "1", "--log-file", logFile, "--log-level", "loud", "x.yaml")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestPlayMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "play",
		"--channel", "1",
		"--log-level", "info",
		"--log-file", filepath.Join(dir, "run.log"),
		filepath.Join(dir, "missing.yaml"),
	)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPlayRunsOnBeatsWithoutInput(t *testing.T) {
	dir := t.TempDir()
	program := filepath.Join(dir, "set.yaml")
	logFile := filepath.Join(dir, "run.log")
	require.NoError(t, os.WriteFile(program, []byte(`
name: Rehearsal
bpm: 600
program: 5
chords:
  - C: {beats: 0.5}
  - G7: {beats: 0.5}
`), 0o644))

	_, err := execute(t, "play",
		"--input", "none",
		"--output", "log",
		"--channel", "3",
		"--tick", "1ms",
		"--log-level", "info",
		"--log-file", logFile,
		program,
	)
	require.NoError(t, err)

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	text := string(logged)
	assert.Contains(t, text, `"session"`)
	assert.Contains(t, text, `"sequence":"Rehearsal"`)
	assert.Contains(t, text, `"chord":"C"`)
	assert.Contains(t, text, `"chord":"G7"`)
	assert.Contains(t, text, "MIDI message")
}

func TestLoadProgramsStopsAtFirstBadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte("chords: [C]\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("chords: [C\n"), 0o644))

	log := logger.NewNopLogger()
	programs, err := loadPrograms(log, []string{good})
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, 1, programs[0].Len())

	_, err = loadPrograms(log, []string{good, bad})
	assert.ErrorIs(t, err, loader.ErrInvalidDocument)
}
