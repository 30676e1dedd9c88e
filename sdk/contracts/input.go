package contracts

// Command is a performer action understood by the control loop.
type Command int

const (
	// Quit stops playback and ends the program.
	Quit Command = iota
	// KillAll silences the instrument.
	KillAll
	// Advance plays the next chord of the current sequence.
	Advance
	// PreviousSequence rewinds the current sequence, or steps back to the previous one.
	PreviousSequence
	// NextSequence starts the next sequence.
	NextSequence
	// Tap registers a tempo tap.
	Tap
)

var commandNames = [...]string{
	Quit:             "quit",
	KillAll:          "kill-all",
	Advance:          "advance",
	PreviousSequence: "previous-sequence",
	NextSequence:     "next-sequence",
	Tap:              "tap",
}

func (c Command) String() string {
	if c >= 0 && int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "unknown"
}

// InputBackend discovers and opens input devices of one kind.
type InputBackend interface {
	Name() string                                       // Unique backend name, e.g. "MIDI".
	Probe() ([]DeviceInfo, error)                       // Lists the devices this backend can open.
	Connect(device DeviceInfo) (InputConnection, error) // Opens a probed device.
}

// InputConnection is an open input device.
type InputConnection interface {
	// Read returns the next pending command without blocking.
	// ok is false when nothing is pending.
	Read() (cmd Command, ok bool, err error)
	// Close disconnects the device.
	Close() error
}
