// Package logger holds the process-wide zerolog logger.
//
// Call Init once from main; packages that were not handed a logger explicitly
// fetch it with Get. Console output goes to stderr so it never mixes with the
// storefront prompts on stdout, and an optional file sink keeps a rotated
// JSON copy of every record.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the optional log file.
const (
	fileMaxSizeMB  = 64
	fileMaxBackups = 7
	fileMaxAgeDays = 7
)

// Options is read by the first Init call only.
type Options struct {
	// Level accepts any zerolog level name plus "warning". Empty or unknown
	// names mean info.
	Level string
	// Pretty switches the console sink to zerolog.ConsoleWriter.
	Pretty bool
	// Output is the console sink, os.Stderr when nil.
	Output io.Writer
	// File is the path of a size-rotated JSON log. Empty disables it.
	File string
}

var state struct {
	mu     sync.Mutex
	ready  bool
	log    zerolog.Logger
	rotate *lumberjack.Logger
}

// Init builds the shared logger on its first call and returns it. Later calls
// ignore opts and return the logger built the first time.
func Init(opts Options) zerolog.Logger {
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.ready {
		return state.log
	}

	w, rotate := sinks(opts)
	lvl := parseLevel(opts.Level)

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(lvl)

	state.log = zerolog.New(w).Level(lvl).With().Timestamp().Caller().Logger()
	state.rotate = rotate
	state.ready = true
	return state.log
}

// sinks assembles the console writer and, when configured, the rotated file.
func sinks(opts Options) (io.Writer, *lumberjack.Logger) {
	var console io.Writer = os.Stderr
	if opts.Output != nil {
		console = opts.Output
	}
	if opts.Pretty {
		console = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	}
	if opts.File == "" {
		return console, nil
	}

	rotate := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    fileMaxSizeMB,
		MaxBackups: fileMaxBackups,
		MaxAge:     fileMaxAgeDays,
	}
	return zerolog.MultiLevelWriter(console, rotate), rotate
}

// Get returns the shared logger and panics when Init has not run.
func Get() zerolog.Logger {
	state.mu.Lock()
	defer state.mu.Unlock()

	if !state.ready {
		panic("logger: Get() called before Init()")
	}
	return state.log
}

// Close flushes the rotated file, if one is open.
func Close() error {
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.rotate == nil {
		return nil
	}
	return state.rotate.Close()
}

// Reset closes the file sink and forgets the logger so tests can Init again.
func Reset() {
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.rotate != nil {
		_ = state.rotate.Close()
	}
	state.ready = false
	state.log = zerolog.Logger{}
	state.rotate = nil
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func parseLevel(s string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
