package input

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/chordtap/internal/logger"
	"github.com/leandrodaf/chordtap/sdk/contracts"
)

type fakeConn struct {
	pending []contracts.Command
	closed  int
	err     error
}

func (c *fakeConn) Read() (contracts.Command, bool, error) {
	if len(c.pending) == 0 {
		return 0, false, nil
	}
	cmd := c.pending[0]
	c.pending = c.pending[1:]
	return cmd, true, nil
}

func (c *fakeConn) Close() error {
	c.closed++
	return c.err
}

type fakeBackend struct {
	name       string
	devices    []contracts.DeviceInfo
	probeErr   error
	connectErr map[int]error
	conns      map[int]*fakeConn
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Probe() ([]contracts.DeviceInfo, error) {
	return b.devices, b.probeErr
}

func (b *fakeBackend) Connect(d contracts.DeviceInfo) (contracts.InputConnection, error) {
	if err := b.connectErr[d.ID]; err != nil {
		return nil, err
	}
	if b.conns == nil {
		b.conns = map[int]*fakeConn{}
	}
	c := &fakeConn{}
	b.conns[d.ID] = c
	return c, nil
}

func newRegistry() *Registry {
	return NewRegistry(logger.NewNopLogger())
}

func TestRegister(t *testing.T) {
	r := newRegistry()

	assert.ErrorIs(t, r.Register(nil), ErrInvalidBackend)
	assert.ErrorIs(t, r.Register(&fakeBackend{}), ErrInvalidBackend)

	require.NoError(t, r.Register(&fakeBackend{name: "MIDI"}))
	assert.ErrorIs(t, r.Register(&fakeBackend{name: "MIDI"}), ErrBackendExists)

	for i := 1; i < MaxBackends; i++ {
		require.NoError(t, r.Register(&fakeBackend{name: fmt.Sprintf("B%d", i)}))
	}
	assert.ErrorIs(t, r.Register(&fakeBackend{name: "ONE-TOO-MANY"}), ErrTooManyBackends)
	assert.Len(t, r.Backends(), MaxBackends)
}

func TestProbeCombinesBackends(t *testing.T) {
	r := newRegistry()
	require.NoError(t, r.Register(&fakeBackend{
		name:    "MIDI",
		devices: []contracts.DeviceInfo{{ID: 1, Name: "Pedal"}},
	}))
	require.NoError(t, r.Register(&fakeBackend{name: "BROKEN", probeErr: errors.New("no permission")}))
	require.NoError(t, r.Register(&fakeBackend{
		name:    "JOYSTICK",
		devices: []contracts.DeviceInfo{{ID: 0, Name: "Pad"}},
	}))

	devices, err := r.Probe()
	require.Len(t, devices, 2)
	assert.Equal(t, "MIDI", devices[0].Backend)
	assert.Equal(t, "JOYSTICK", devices[1].Backend)
	assert.ErrorContains(t, err, "BROKEN: no permission")
}

func TestConnectAndRead(t *testing.T) {
	r := newRegistry()
	b := &fakeBackend{name: "MIDI", devices: []contracts.DeviceInfo{{ID: 3, Name: "Pedal"}}}
	require.NoError(t, r.Register(b))

	in, err := r.Connect(contracts.DeviceInfo{Backend: "MIDI", ID: 3, Name: "Pedal"})
	require.NoError(t, err)
	b.conns[3].pending = []contracts.Command{contracts.Tap}

	cmd, ok, err := in.Read()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, contracts.Tap, cmd)

	_, ok, err = in.Read()
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.Connect(contracts.DeviceInfo{Backend: "NOPE"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestAutodetectSkipsFailingDevices(t *testing.T) {
	r := newRegistry()
	require.NoError(t, r.Register(&fakeBackend{
		name:       "MIDI",
		devices:    []contracts.DeviceInfo{{ID: 0, Name: "Busy"}},
		connectErr: map[int]error{0: errors.New("busy")},
	}))
	pads := &fakeBackend{name: "JOYSTICK", devices: []contracts.DeviceInfo{{ID: 1, Name: "Pad"}}}
	require.NoError(t, r.Register(pads))

	in, err := r.Autodetect()
	require.NoError(t, err)
	assert.Equal(t, "Pad", in.Device.Name)
	assert.Equal(t, "JOYSTICK", in.Device.Backend)
}

func TestAutodetectWithoutDevices(t *testing.T) {
	r := newRegistry()
	require.NoError(t, r.Register(&fakeBackend{name: "MIDI"}))

	_, err := r.Autodetect()
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestCloseDisconnectsOnce(t *testing.T) {
	r := newRegistry()
	b := &fakeBackend{name: "MIDI", devices: []contracts.DeviceInfo{{ID: 0}, {ID: 1}}}
	require.NoError(t, r.Register(b))

	in, err := r.Connect(contracts.DeviceInfo{Backend: "MIDI", ID: 0})
	require.NoError(t, err)
	_, err = r.Connect(contracts.DeviceInfo{Backend: "MIDI", ID: 1})
	require.NoError(t, err)
	b.conns[1].err = errors.New("stuck")

	require.NoError(t, in.Close())
	err = r.Close()
	assert.ErrorContains(t, err, "stuck")

	assert.Equal(t, 1, b.conns[0].closed)
	assert.Equal(t, 1, b.conns[1].closed)
	assert.NoError(t, r.Close())
}
