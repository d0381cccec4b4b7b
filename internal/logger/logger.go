// Package logger is the process-wide diagnostic log of the babix CLI.
//
// Everything except Error is silent unless verbose mode is on (--verbose or
// BABIX_VERBOSE). Output goes to stderr so that stdout stays clean for
// search results and JSON.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level tags a log line.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects all log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit holds the write lock so lines from concurrent workers never interleave.
func emit(level Level, prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose && level != LevelError {
		return
	}
	fmt.Fprintf(output, "[%s] %s%s\n", level, prefix, fmt.Sprintf(format, args...))
}

func Debug(format string, args ...any) { emit(LevelDebug, "", format, args...) }
func Info(format string, args ...any)  { emit(LevelInfo, "", format, args...) }
func Warn(format string, args ...any)  { emit(LevelWarn, "", format, args...) }

// Error is printed regardless of verbose mode.
func Error(format string, args ...any) { emit(LevelError, "", format, args...) }

// Section prints a header separating pipeline stages.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Timer logs how long a stage took when the returned func is called.
//
//	defer logger.Timer("search %q", query)()
func Timer(format string, args ...any) func() {
	if !IsVerbose() {
		return func() {}
	}
	name := fmt.Sprintf(format, args...)
	start := time.Now()
	return func() {
		emit(LevelDebug, "", "%s took %s", name, time.Since(start).Round(time.Microsecond))
	}
}

// Source prefixes every line with an origin so that interleaved output of
// parallel ingest workers stays attributable.
type Source string

func (s Source) prefix() string { return "[" + string(s) + "] " }

func (s Source) Debug(format string, args ...any) { emit(LevelDebug, s.prefix(), format, args...) }
func (s Source) Info(format string, args ...any)  { emit(LevelInfo, s.prefix(), format, args...) }
func (s Source) Warn(format string, args ...any)  { emit(LevelWarn, s.prefix(), format, args...) }
func (s Source) Error(format string, args ...any) { emit(LevelError, s.prefix(), format, args...) }
