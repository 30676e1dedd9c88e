package keyboard

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/chordtap/internal/logger"
	"github.com/leandrodaf/chordtap/sdk/contracts"
)

// readAll polls until n commands arrived or the deadline passed.
func readAll(t *testing.T, c *connection, n int) []contracts.Command {
	t.Helper()
	var got []contracts.Command
	deadline := time.Now().Add(time.Second)
	for len(got) < n && time.Now().Before(deadline) {
		cmd, ok, err := c.Read()
		require.NoError(t, err)
		if ok {
			got = append(got, cmd)
			continue
		}
		time.Sleep(time.Millisecond)
	}
	return got
}

func TestKeysMapToCommands(t *testing.T) {
	restored := false
	c := newConnection(strings.NewReader(" tkx[]q\x03"), func() error {
		restored = true
		return nil
	}, logger.NewNopLogger())

	got := readAll(t, c, 7)
	assert.Equal(t, []contracts.Command{
		contracts.Advance,
		contracts.Tap,
		contracts.KillAll,
		contracts.PreviousSequence,
		contracts.NextSequence,
		contracts.Quit,
		contracts.Quit,
	}, got)

	require.NoError(t, c.Close())
	assert.True(t, restored)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestReadErrorsSurface(t *testing.T) {
	c := newConnection(failingReader{}, nil, logger.NewNopLogger())

	var err error
	deadline := time.Now().Add(time.Second)
	for err == nil && time.Now().Before(deadline) {
		_, _, err = c.Read()
		time.Sleep(time.Millisecond)
	}
	assert.ErrorContains(t, err, "tty gone")
	assert.NoError(t, c.Close())
}

func TestEOFIsQuiet(t *testing.T) {
	c := newConnection(io.MultiReader(), nil, logger.NewNopLogger())
	time.Sleep(10 * time.Millisecond)
	_, ok, err := c.Read()
	assert.NoError(t, err)
	assert.False(t, ok)
}
