// Package logger holds the process-wide zap logger. Diagnostics go to stderr
// and an optional rotating file; stdout is left to command output.
package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Faultbox/sherman/pkg/formats"
)

// Log is the global logger. It discards everything until Init or Setup is called.
var Log = zap.NewNop()

// FileConfig configures the rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns rotation settings sized for batch conversions.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 2,
		MaxAgeDays: 14,
		Compress:   true,
	}
}

// Options selects the logger's level and sinks.
type Options struct {
	Level   string
	Console io.Writer // nil disables console output
	File    FileConfig
}

// Init configures console logging on stderr and, when logFile is set, a
// rotating file.
func Init(level, logFile string) error {
	opts := Options{Level: level, Console: os.Stderr}
	if logFile != "" {
		opts.File = DefaultFileConfig(logFile)
	}
	return Setup(opts)
}

// Setup replaces the global logger.
func Setup(opts Options) error {
	lvl, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	var cores []zapcore.Core
	if opts.Console != nil {
		levelEnc := zapcore.CapitalLevelEncoder
		if opts.Console == os.Stderr {
			levelEnc = zapcore.CapitalColorLevelEncoder
		}
		enc := encoder(zapcore.TimeEncoderOfLayout("15:04:05"), levelEnc)
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(opts.Console)), lvl))
	}
	if opts.File.Path != "" {
		w := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
			LocalTime:  true,
		}
		enc := encoder(zapcore.ISO8601TimeEncoder, zapcore.CapitalLevelEncoder)
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return nil
}

func encoder(timeEnc zapcore.TimeEncoder, levelEnc zapcore.LevelEncoder) zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       timeEnc,
		EncodeLevel:      levelEnc,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: " ",
	})
}

// Nop installs a logger that discards everything.
func Nop() {
	Log = zap.NewNop()
}

// With returns a child logger carrying fields, e.g. the file being processed.
func With(fields ...zap.Field) *zap.Logger {
	return Log.With(fields...)
}

// WarningFields locates a parser warning: line for text formats, section
// path and byte offset for binary ones.
func WarningFields(file string, w formats.Warning) []zap.Field {
	fields := []zap.Field{zap.String("file", file)}
	if w.Line > 0 {
		return append(fields, zap.Int("line", w.Line))
	}
	if w.Path != "" {
		fields = append(fields, zap.String("path", w.Path))
	}
	return append(fields, zap.String("offset", fmt.Sprintf("0x%x", w.Offset)))
}

// Warnings logs every parser warning for file at warn level.
func Warnings(file string, warnings []formats.Warning) {
	for _, w := range warnings {
		Log.Warn(w.Message, WarningFields(file, w)...)
	}
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}

func Debug(msg string, fields ...zap.Field) { Log.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Log.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Log.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Log.Error(msg, fields...) }
