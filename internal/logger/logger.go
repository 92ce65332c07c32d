// Package logger provides verbose logging for the lexroute CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr so users can follow the ingestion and query
// pipeline.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var std = &logger{output: os.Stderr}

// logger holds the shared state behind the package-level functions.
type logger struct {
	mu      sync.RWMutex
	verbose bool
	output  io.Writer
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	std.mu.RLock()
	defer std.mu.RUnlock()
	return std.verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	std.emit("[DEBUG] "+format+"\n", args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	std.emit("[INFO] "+format+"\n", args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	std.emit("[WARN] "+format+"\n", args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	std.emit("\n=== %s ===\n", name)
}

func (l *logger) emit(format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.verbose {
		fmt.Fprintf(l.output, format, args...)
	}
}
