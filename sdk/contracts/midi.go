package contracts

import (
	"fmt"
	"time"
)

// MIDICommand is the status nibble of a channel voice message.
type MIDICommand byte

const (
	// NoteOff is the MIDI command for a Note Off event (0x80).
	NoteOff MIDICommand = 0x80
	// NoteOn is the MIDI command for a Note On event (0x90).
	NoteOn MIDICommand = 0x90
	// ControlChange is the MIDI command for a Control Change event (0xB0).
	ControlChange MIDICommand = 0xB0
	// ProgramChange is the MIDI command for a Program Change event (0xC0).
	ProgramChange MIDICommand = 0xC0
)

const (
	// AllSoundOff is the channel mode controller that silences every sounding note.
	AllSoundOff byte = 0x7B

	noteOnVelocity  byte = 0x7F
	noteOffVelocity byte = 0x40
)

// Message is a three byte channel message with an optional delivery delay.
type Message struct {
	Status byte          // Status byte: command in the high nibble, channel in the low nibble.
	Data1  byte          // First data byte (pitch, controller or program number).
	Data2  byte          // Second data byte (velocity or controller value).
	Delay  time.Duration // Time to wait before the message is delivered.
}

// Command returns the command part of the status byte.
func (m Message) Command() MIDICommand {
	return MIDICommand(m.Status & 0xF0)
}

// Bytes returns the wire representation of the message.
func (m Message) Bytes() []byte {
	if m.Command() == ProgramChange {
		return []byte{m.Status, m.Data1}
	}
	return []byte{m.Status, m.Data1, m.Data2}
}

func (m Message) String() string {
	if m.Delay > 0 {
		return fmt.Sprintf("%02X %02X %02X +%s", m.Status, m.Data1, m.Data2, m.Delay)
	}
	return fmt.Sprintf("%02X %02X %02X", m.Status, m.Data1, m.Data2)
}

// NoteOnMessage strikes pitch at full velocity.
func NoteOnMessage(channel uint8, pitch int) Message {
	return Message{Status: byte(NoteOn) | channel&0x0F, Data1: byte(pitch) & 0x7F, Data2: noteOnVelocity}
}

// NoteOffMessage releases pitch.
func NoteOffMessage(channel uint8, pitch int) Message {
	return Message{Status: byte(NoteOff) | channel&0x0F, Data1: byte(pitch) & 0x7F, Data2: noteOffVelocity}
}

// ProgramChangeMessage selects program on the device. Only the low seven bits are kept.
func ProgramChangeMessage(channel uint8, program int) Message {
	return Message{Status: byte(ProgramChange) | channel&0x0F, Data1: byte(program) & 0x7F}
}

// AllSoundOffMessage silences every note on the channel.
func AllSoundOffMessage(channel uint8) Message {
	return Message{Status: byte(ControlChange) | channel&0x0F, Data1: AllSoundOff}
}

// Sender delivers messages to an instrument.
type Sender interface {
	Send(msg Message) error
}

// Output defines an interface for MIDI output port operations.
type Output interface {
	Sender
	Close() error                       // Closes the port and releases resources.
	ListDevices() ([]DeviceInfo, error) // Lists all available output ports.
	SelectDevice(deviceID int) error    // Opens the output port with the given index.
}
