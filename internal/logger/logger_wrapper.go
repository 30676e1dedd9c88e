package logger

import (
	"os"
	"time"

	"github.com/leandrodaf/chordtap/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements contracts.Logger on top of Uber's zap.
type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel // shared with children created by With
}

// NewZapLogger creates a console logger writing to stderr at InfoLevel.
func NewZapLogger() contracts.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return &ZapLogger{logger: newZap(level, "stderr"), level: level}
}

// NewFileLogger creates a logger writing JSON records to path.
// It falls back to the console when the file cannot be opened.
func NewFileLogger(path string) contracts.Logger {
	z := NewZapLogger()
	z.SetDestination(contracts.FileLog, path)
	return z
}

// NewNopLogger returns a logger that drops everything. Useful in tests.
func NewNopLogger() contracts.Logger {
	return &ZapLogger{logger: zap.NewNop(), level: zap.NewAtomicLevel()}
}

func newZap(level zap.AtomicLevel, path string) *zap.Logger {
	encoding, encoder := "console", zap.NewDevelopmentEncoderConfig()
	if path != "stderr" && path != "stdout" {
		encoding, encoder = "json", zap.NewProductionEncoderConfig()
	}

	cfg := zap.Config{
		Level:            level,
		Encoding:         encoding,
		EncoderConfig:    encoder,
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
	}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)

	l, err := cfg.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		return zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(cfg.EncoderConfig),
			zapcore.Lock(os.Stderr),
			level,
		))
	}
	return l
}

// Info logs a message at the INFO level
func (z *ZapLogger) Info(msg string, fields ...contracts.Field) {
	z.logger.Info(msg, toZap(fields)...)
}

// Error logs a message at the ERROR level
func (z *ZapLogger) Error(msg string, fields ...contracts.Field) {
	z.logger.Error(msg, toZap(fields)...)
}

// Debug logs a message at the DEBUG level
func (z *ZapLogger) Debug(msg string, fields ...contracts.Field) {
	z.logger.Debug(msg, toZap(fields)...)
}

// Warn logs a message at the WARN level
func (z *ZapLogger) Warn(msg string, fields ...contracts.Field) {
	z.logger.Warn(msg, toZap(fields)...)
}

// Fatal logs a message at the FATAL level and terminates the application
func (z *ZapLogger) Fatal(msg string, fields ...contracts.Field) {
	z.logger.Fatal(msg, toZap(fields)...)
}

// Field returns a new instance of Field
func (z *ZapLogger) Field() contracts.Field {
	return zapField{}
}

// With returns a child logger carrying fields on every record.
func (z *ZapLogger) With(fields ...contracts.Field) contracts.Logger {
	return &ZapLogger{logger: z.logger.With(toZap(fields)...), level: z.level}
}

// SetLevel sets the logging level
func (z *ZapLogger) SetLevel(level contracts.LogLevel) {
	z.level.SetLevel(zapLevel(level))
}

// SetDestination switches output between the console and a file.
// Fields attached with With are lost on the receiver when the destination changes.
func (z *ZapLogger) SetDestination(dest contracts.LogDestination, filePath ...string) {
	path := "stderr"
	if dest == contracts.FileLog && len(filePath) > 0 && filePath[0] != "" {
		path = filePath[0]
	}
	_ = z.logger.Sync()
	z.logger = newZap(z.level, path)
}

func zapLevel(level contracts.LogLevel) zapcore.Level {
	switch level {
	case contracts.DebugLevel:
		return zapcore.DebugLevel
	case contracts.WarnLevel:
		return zapcore.WarnLevel
	case contracts.ErrorLevel:
		return zapcore.ErrorLevel
	case contracts.FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZap(fields []contracts.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if f, ok := field.(zapField); ok && f.set {
			out = append(out, f.field)
		}
	}
	return out
}

// zapField implements contracts.Field
type zapField struct {
	field zap.Field
	set   bool
}

func (zapField) Bool(key string, val bool) contracts.Field {
	return zapField{zap.Bool(key, val), true}
}

func (zapField) Int(key string, val int) contracts.Field {
	return zapField{zap.Int(key, val), true}
}

func (zapField) Ints(key string, val []int) contracts.Field {
	return zapField{zap.Ints(key, val), true}
}

func (zapField) Float64(key string, val float64) contracts.Field {
	return zapField{zap.Float64(key, val), true}
}

func (zapField) String(key string, val string) contracts.Field {
	return zapField{zap.String(key, val), true}
}

func (zapField) Time(key string, val time.Time) contracts.Field {
	return zapField{zap.Time(key, val), true}
}

func (zapField) Duration(key string, val time.Duration) contracts.Field {
	return zapField{zap.Duration(key, val), true}
}

func (zapField) Int64(key string, val int64) contracts.Field {
	return zapField{zap.Int64(key, val), true}
}

func (zapField) Error(key string, val error) contracts.Field {
	return zapField{zap.NamedError(key, val), true}
}

func (zapField) Uint64(key string, val uint64) contracts.Field {
	return zapField{zap.Uint64(key, val), true}
}

func (zapField) Uint8(key string, val uint8) contracts.Field {
	return zapField{zap.Uint8(key, val), true}
}
