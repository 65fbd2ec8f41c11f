// Package logger wraps a process-wide leveled logger that writes to a
// rotating file and, in debug mode, to stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the global logger instance. It discards output until Init runs.
var Logger = log.New(io.Discard)

// Config holds logger configuration.
type Config struct {
	Debug  bool
	LogDir string
}

// Init initializes the global logger with the given configuration.
func Init(cfg Config) error {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "weighttracker.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.InfoLevel
	var writer io.Writer = fileWriter
	if cfg.Debug {
		level = log.DebugLevel
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "weighttracker",
	})
	return nil
}

// SetOutput redirects the global logger, keeping debug level. Used by tests
// that assert on log lines.
func SetOutput(w io.Writer) {
	Logger = log.NewWithOptions(w, log.Options{Level: log.DebugLevel})
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...any) { Logger.Debug(msg, keyvals...) }

// Info logs an info message.
func Info(msg string, keyvals ...any) { Logger.Info(msg, keyvals...) }

// Warn logs a warning message.
func Warn(msg string, keyvals ...any) { Logger.Warn(msg, keyvals...) }

// Error logs an error message.
func Error(msg string, keyvals ...any) { Logger.Error(msg, keyvals...) }

// Fatal logs a fatal error and exits.
func Fatal(msg string, keyvals ...any) {
	Logger.Error(msg, keyvals...)
	os.Exit(1)
}
