// Package logger provides structured logging for replicant on top of zap.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Default is the default logger instance.
	Default *zap.SugaredLogger

	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	mu      sync.Mutex
	logFile *os.File
)

func init() {
	// Until Init is called, log to stderr so stdout stays clean for
	// command output and the TUI.
	Default = zap.New(consoleCore(zapcore.AddSync(os.Stderr))).Sugar()
}

// Config holds logger configuration.
type Config struct {
	Path    string
	Level   string
	Console bool
	// Writer overrides the console destination (stderr when nil).
	Writer io.Writer
}

// ParseLevel maps a level name onto a zap level; unknown names map to info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init initializes the logger with the given configuration.
// With neither console output nor a path, logging is discarded.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	level.SetLevel(ParseLevel(cfg.Level))

	var cores []zapcore.Core

	if cfg.Console {
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		cores = append(cores, consoleCore(zapcore.AddSync(w)))
	}

	var file *os.File
	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return err
		}

		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		file = f
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig()),
			zapcore.AddSync(f),
			level,
		))
	}

	if len(cores) == 0 {
		Default = zap.NewNop().Sugar()
	} else {
		Default = zap.New(zapcore.NewTee(cores...)).Sugar()
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	return nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

func consoleCore(ws zapcore.WriteSyncer) zapcore.Core {
	cfg := encoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), ws, level)
}

// Sync flushes buffered log entries.
func Sync() error {
	return Default.Sync()
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Default.Debugw(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	Default.Infow(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Default.Warnw(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Default.Errorw(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *zap.SugaredLogger {
	return Default.With(args...)
}
