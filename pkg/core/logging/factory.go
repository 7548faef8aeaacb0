// ============================================================================
// Euler - Free-form Calculator
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating configured loggers
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	eulerlog "github.com/msto63/euler/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: json, text, console or logfmt (default: json)
	Format string

	// Output overrides stdout when set
	Output io.Writer

	// Additional outputs (besides Output)
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "json",
	}
}

// NewLogger creates a new foundation logger
func NewLogger(cfg LoggerConfig) *eulerlog.Logger {
	var output io.Writer = os.Stdout
	if cfg.Output != nil {
		output = cfg.Output
	}

	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	format, err := eulerlog.ParseFormat(cfg.Format)
	if err != nil {
		format = eulerlog.FormatJSON
	}

	return eulerlog.NewWithConfig(eulerlog.Config{
		Level:  parseLevel(cfg.Level),
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
}

// NewSimpleLogger creates a logger with the default configuration
func NewSimpleLogger(serviceName string) *eulerlog.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}

// OpenLogFile opens (or creates) dir/name.log for appending. The TUI logs
// there because stdout belongs to the terminal renderer.
func OpenLogFile(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, name+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// parseLevel converts a string level to eulerlog.Level, defaulting to info
func parseLevel(level string) eulerlog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return eulerlog.LevelTrace
	case "debug":
		return eulerlog.LevelDebug
	case "info":
		return eulerlog.LevelInfo
	case "warn", "warning":
		return eulerlog.LevelWarn
	case "error":
		return eulerlog.LevelError
	case "fatal":
		return eulerlog.LevelFatal
	default:
		return eulerlog.LevelInfo
	}
}

// Compatibility layer for code using key-value pairs

// Logger wraps the foundation logger with a key-value API
type Logger struct {
	*eulerlog.Logger
	name string
}

// New creates a new key-value logger with the default configuration
func New(name string) *Logger {
	return Wrap(NewSimpleLogger(name), name)
}

// Wrap adapts an existing foundation logger
func Wrap(l *eulerlog.Logger, name string) *Logger {
	return &Logger{Logger: l, name: name}
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// Foundation returns the underlying foundation logger
func (l *Logger) Foundation() *eulerlog.Logger {
	return l.Logger
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to eulerlog.Fields; a trailing key without value is dropped
func toFields(keysAndValues ...interface{}) eulerlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(eulerlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
