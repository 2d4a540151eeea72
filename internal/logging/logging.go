// Package logging holds the process wide zerolog logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	// L is the logger used across the module. It writes to stderr until
	// SetLogOutput adds a file sink.
	L = newLogger(consoleWriter())

	mu      sync.Mutex
	logFile *os.File
)

func consoleWriter() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Caller().Logger().Level(zerolog.InfoLevel)
}

// SetLogLevel changes the level of L.
func SetLogLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	L = L.Level(level)
}

// ParseLevel maps the config strings to zerolog levels. Unknown values fall
// back to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetLogOutput writes JSON lines to dir/fileName. With console set the
// stderr output is kept as well.
func SetLogOutput(dir, fileName string, console bool) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	level := L.GetLevel()
	var w io.Writer = f
	if console {
		w = zerolog.MultiLevelWriter(consoleWriter(), f)
	}
	L = newLogger(w).Level(level)
	return nil
}

// Close flushes and closes the file sink, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return
	}
	_ = logFile.Sync()
	_ = logFile.Close()
	logFile = nil
	L = newLogger(consoleWriter()).Level(L.GetLevel())
}
