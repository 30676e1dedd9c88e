package joystick

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leandrodaf/chordtap/internal/logger"
	"github.com/leandrodaf/chordtap/sdk/contracts"
)

func testMap() *buttonMap {
	m := &buttonMap{logger: logger.NewNopLogger(), buttons: 8}
	copy(m.codes[:], []uint16{0x130, 0x131, btnY, btnTL, btnTR, btnTL2, btnTR2, btnSelect})
	return m
}

func TestDecodeEvent(t *testing.T) {
	e := decodeEvent([]byte{0x10, 0x27, 0x00, 0x00, 0x01, 0x00, eventButton, 0x04})
	assert.Equal(t, event{Time: 10000, Value: 1, Type: eventButton, Number: 4}, e)

	e = decodeEvent([]byte{0, 0, 0, 0, 0x00, 0x80, 0x02, 0x01})
	assert.Equal(t, int16(-32768), e.Value)
}

func TestButtonCommands(t *testing.T) {
	cases := []struct {
		number uint8
		want   contracts.Command
	}{
		{2, contracts.Tap},
		{3, contracts.KillAll},
		{4, contracts.Advance},
		{5, contracts.PreviousSequence},
		{6, contracts.NextSequence},
		{7, contracts.Quit},
	}

	m := testMap()
	for _, tc := range cases {
		t.Run(tc.want.String(), func(t *testing.T) {
			cmd, ok := m.command(event{Type: eventButton, Value: 1, Number: tc.number})
			assert.True(t, ok)
			assert.Equal(t, tc.want, cmd)
		})
	}
}

func TestIgnoredEvents(t *testing.T) {
	m := testMap()
	cases := map[string]event{
		"release":         {Type: eventButton, Value: 0, Number: 4},
		"init":            {Type: eventButton | eventInit, Value: 1, Number: 4},
		"axis":            {Type: 0x02, Value: 1, Number: 4},
		"unmapped button": {Type: eventButton, Value: 1, Number: 0},
		"beyond count":    {Type: eventButton, Value: 1, Number: 8},
	}
	for name, e := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := m.command(e)
			assert.False(t, ok)
		})
	}
}
