package logger

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *log.Logger
	mu     sync.RWMutex
)

// Init initializes the logger. Output goes to a rotated log file; an
// empty file path logs to stderr.
func Init(level, file string, verbose bool) {
	logLevel, err := log.ParseLevel(level)
	if err != nil {
		logLevel = log.InfoLevel
	}
	if verbose {
		logLevel = log.DebugLevel
	}

	var w io.Writer = os.Stderr
	if file != "" {
		w = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   true,
		}
	}

	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "campus",
	})
	l.SetLevel(logLevel)
	set(l)
}

// SetOutput replaces the logger with one writing to w at debug level.
// Used by tests to capture log lines.
func SetOutput(w io.Writer) {
	l := log.New(w)
	l.SetLevel(log.DebugLevel)
	set(l)
}

func set(l *log.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

func get() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a debug message
func Debug(msg string, args ...interface{}) {
	if l := get(); l != nil {
		l.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...interface{}) {
	if l := get(); l != nil {
		l.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...interface{}) {
	if l := get(); l != nil {
		l.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...interface{}) {
	if l := get(); l != nil {
		l.Error(msg, args...)
	}
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...interface{}) {
	if l := get(); l != nil {
		l.Fatal(msg, args...)
	}
	os.Exit(1)
}

// GetLogger returns the logger instance
func GetLogger() *log.Logger {
	return get()
}
