package contracts

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
	PortName   string // Name of the output port created by the client.
}

// OutputOptions defines the configuration options for a MIDI output.
type OutputOptions struct {
	Logger         Logger          // Logger for logging events and errors.
	LogLevel       LogLevel        // Level of logging to use.
	LogFilePath    string          // File path for logging if file logging is enabled.
	PortName       string          // Case-insensitive substring selecting the output port.
	ExcludedPorts  []string        // Port names never picked automatically.
	BaudRate       int             // Baud rate for serial outputs.
	CoreMIDIConfig *CoreMIDIConfig // Configuration specific to CoreMIDI.
}

// Option is a function that modifies OutputOptions.
type Option func(*OutputOptions)

// WithLogger sets the logger for the output.
func WithLogger(l Logger) Option {
	return func(opts *OutputOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the output.
func WithLogLevel(level LogLevel) Option {
	return func(opts *OutputOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile directs the default logger to a file.
func WithLogFile(path string) Option {
	return func(opts *OutputOptions) {
		opts.LogFilePath = path
	}
}

// WithPortName selects the output port whose name contains name.
func WithPortName(name string) Option {
	return func(opts *OutputOptions) {
		opts.PortName = name
	}
}

// WithExcludedPorts adds port names that must not be picked automatically.
// The name of the connected input device usually goes here.
func WithExcludedPorts(names ...string) Option {
	return func(opts *OutputOptions) {
		opts.ExcludedPorts = append(opts.ExcludedPorts, names...)
	}
}

// WithBaudRate sets the baud rate for serial outputs.
func WithBaudRate(baud int) Option {
	return func(opts *OutputOptions) {
		opts.BaudRate = baud
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration for the output.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *OutputOptions) {
		opts.CoreMIDIConfig = &config
	}
}
