package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/chordtap/internal/logger"
	"github.com/leandrodaf/chordtap/sdk/contracts"
)

func ports(names ...string) []contracts.DeviceInfo {
	devices := make([]contracts.DeviceInfo, len(names))
	for i, name := range names {
		devices[i] = contracts.DeviceInfo{ID: i, Name: name}
	}
	return devices
}

func TestSelectPort(t *testing.T) {
	devices := ports("Midi Through", "FCB1010", "Nord Stage 3", "USB Pedal")

	cases := []struct {
		name     string
		port     string
		excluded []string
		want     int
		err      bool
	}{
		{name: "last port by default", want: 3},
		{name: "input excluded", excluded: []string{"usb pedal"}, want: 2},
		{name: "several excluded", excluded: []string{"USB Pedal", "Nord Stage 3"}, want: 1},
		{name: "by name", port: "nord", want: 2},
		{name: "name wins over exclusion", port: "pedal", excluded: []string{"USB Pedal"}, want: 3},
		{name: "unknown name", port: "Moog", err: true},
		{name: "everything excluded", excluded: []string{"Midi Through", "FCB1010", "Nord Stage 3", "USB Pedal"}, err: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := selectPort(devices, tc.port, tc.excluded)
			if tc.err {
				assert.ErrorIs(t, err, ErrNoOutputPort)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.ID)
		})
	}

	_, err := selectPort(nil, "", nil)
	assert.ErrorIs(t, err, ErrNoOutputPort)
}

func TestNewOutputUnknownBackend(t *testing.T) {
	_, err := NewOutput("carrier-pigeon", contracts.WithLogger(logger.NewNopLogger()))
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
}

func TestBackends(t *testing.T) {
	assert.Equal(t, []string{"coremidi", "log", "rtmidi", "serial", "winmm"}, Backends())
	assert.Contains(t, Backends(), DefaultBackend())
}

func TestOpenLogBackend(t *testing.T) {
	out, device, err := Open("log", contracts.WithLogger(logger.NewNopLogger()))
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, "log", device.Name)
	assert.NoError(t, out.Send(contracts.NoteOnMessage(0, 60)))

	_, _, err = Open("log",
		contracts.WithLogger(logger.NewNopLogger()),
		contracts.WithExcludedPorts("log"))
	assert.ErrorIs(t, err, ErrNoOutputPort)
}

func TestApplyDefaultOptions(t *testing.T) {
	options, err := applyDefaultOptions()
	require.NoError(t, err)
	assert.NotNil(t, options.Logger)
	assert.Equal(t, contracts.InfoLevel, options.LogLevel)
	assert.Equal(t, "chordtap", options.CoreMIDIConfig.ClientName)
	assert.Equal(t, "chordtap out", options.CoreMIDIConfig.PortName)

	options, err = applyDefaultOptions(
		contracts.WithCoreMIDIConfig(contracts.CoreMIDIConfig{ClientName: "stage"}),
		contracts.WithBaudRate(38400),
	)
	require.NoError(t, err)
	assert.Equal(t, "stage", options.CoreMIDIConfig.ClientName)
	assert.Equal(t, 38400, options.BaudRate)
}
