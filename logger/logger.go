package logger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var noopFunc = func() {}

// Trace returns a function that logs the elapsed time of an operation when called.
// Returns a no-op when TRACE is disabled.
// Usage: defer logger.Trace("parser.Output")()
func Trace(name string) func() {
	l := current()
	if !l.shouldLog(LogLevelTrace) {
		return noopFunc
	}
	start := time.Now()
	return func() {
		l.logWithLevel(LogLevelTrace, "%s: %v", name, time.Since(start))
	}
}

// DefaultMaxLines is the number of lines a log file is trimmed back to.
const DefaultMaxLines = 5000

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelTrace:
		return "TRACE"
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a level name, defaulting to INFO.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LogLevelTrace
	case "DEBUG":
		return LogLevelDebug
	case "INFO":
		return LogLevelInfo
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// LimitedLogger writes leveled lines and keeps a file-backed log under maxLines.
// Writers that are not *os.File are never rotated.
type LimitedLogger struct {
	out       io.Writer
	file      *os.File
	lineCount int
	maxLines  int
	level     LogLevel
	mutex     sync.Mutex
}

var (
	globalMu     sync.RWMutex
	globalLogger *LimitedLogger
)

var defaultLogger = &LimitedLogger{
	out:      os.Stderr,
	maxLines: DefaultMaxLines,
	level:    LogLevelWarn,
}

// NewLimitedLogger creates a logger on out and installs it as the global logger.
func NewLimitedLogger(out io.Writer, level LogLevel) *LimitedLogger {
	ll := &LimitedLogger{
		out:      out,
		maxLines: DefaultMaxLines,
		level:    level,
	}
	if f, ok := out.(*os.File); ok && f != os.Stderr && f != os.Stdout {
		ll.file = f
		ll.countExistingLines()
	}

	globalMu.Lock()
	globalLogger = ll
	globalMu.Unlock()
	return ll
}

// SetMaxLines changes the rotation threshold.
func (ll *LimitedLogger) SetMaxLines(n int) {
	ll.mutex.Lock()
	defer ll.mutex.Unlock()
	if n > 0 {
		ll.maxLines = n
	}
}

func (ll *LimitedLogger) SetLevel(level LogLevel) {
	ll.mutex.Lock()
	defer ll.mutex.Unlock()
	ll.level = level
}

// SetGlobalLevel sets the level of the global logger, if installed.
func SetGlobalLevel(level LogLevel) {
	if l := installed(); l != nil {
		l.SetLevel(level)
	}
}

// Enabled reports whether messages at level would currently be written.
func Enabled(level LogLevel) bool {
	return current().shouldLog(level)
}

// Reset uninstalls the global logger; package functions fall back to stderr at WARN.
func Reset() {
	globalMu.Lock()
	globalLogger = nil
	globalMu.Unlock()
}

func installed() *LimitedLogger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

func current() *LimitedLogger {
	if l := installed(); l != nil {
		return l
	}
	return defaultLogger
}

func (ll *LimitedLogger) shouldLog(level LogLevel) bool {
	ll.mutex.Lock()
	defer ll.mutex.Unlock()
	return level >= ll.level
}

func (ll *LimitedLogger) logWithLevel(level LogLevel, format string, v ...any) {
	if !ll.shouldLog(level) {
		return
	}
	msg := fmt.Sprintf("%s [%s] %s\n", time.Now().Format("2006/01/02 15:04:05"), level, fmt.Sprintf(format, v...))
	ll.Write([]byte(msg))
}

func (ll *LimitedLogger) Debug(format string, v ...any) {
	ll.logWithLevel(LogLevelDebug, format, v...)
}

func (ll *LimitedLogger) Info(format string, v ...any) {
	ll.logWithLevel(LogLevelInfo, format, v...)
}

func (ll *LimitedLogger) Warn(format string, v ...any) {
	ll.logWithLevel(LogLevelWarn, format, v...)
}

func (ll *LimitedLogger) Error(format string, v ...any) {
	ll.logWithLevel(LogLevelError, format, v...)
}

// Package-level logging functions that use the global logger (or stderr if not installed)
func Debug(format string, v ...any) { current().Debug(format, v...) }
func Info(format string, v ...any)  { current().Info(format, v...) }
func Warn(format string, v ...any)  { current().Warn(format, v...) }
func Error(format string, v ...any) { current().Error(format, v...) }

func (ll *LimitedLogger) countExistingLines() {
	ll.mutex.Lock()
	defer ll.mutex.Unlock()

	ll.file.Seek(0, io.SeekStart)
	scanner := bufio.NewScanner(ll.file)
	count := 0
	for scanner.Scan() {
		count++
	}
	ll.lineCount = count
	ll.file.Seek(0, io.SeekEnd)
}

// Write implements io.Writer
func (ll *LimitedLogger) Write(p []byte) (n int, err error) {
	ll.mutex.Lock()
	defer ll.mutex.Unlock()

	n, err = ll.out.Write(p)
	if err != nil || ll.file == nil {
		return n, err
	}

	ll.lineCount += strings.Count(string(p), "\n")
	if ll.lineCount > ll.maxLines {
		ll.rotateLogFile()
	}
	return n, err
}

// rotateLogFile trims the log file to its last maxLines lines
func (ll *LimitedLogger) rotateLogFile() {
	ll.file.Seek(0, io.SeekStart)
	scanner := bufio.NewScanner(ll.file)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) > ll.maxLines {
		lines = lines[len(lines)-ll.maxLines:]
	}

	ll.file.Truncate(0)
	ll.file.Seek(0, io.SeekStart)
	for _, line := range lines {
		ll.file.WriteString(line + "\n")
	}
	ll.lineCount = len(lines)
}

// Close closes the underlying file, if any.
func (ll *LimitedLogger) Close() error {
	if ll.file == nil {
		return nil
	}
	return ll.file.Close()
}
