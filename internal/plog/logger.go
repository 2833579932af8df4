// Package plog adapts the teacher's zerolog-based logging setup to the
// planet generation pipeline: no HTTP middleware, just a package logger and
// a stage-timing helper the orchestrator wraps around each of the five
// pipeline stages.
package plog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide structured logger. It is safe for concurrent
// use; the orchestrator itself is single-threaded, but per-cell worker
// goroutines inside a stage may log through it.
var Logger zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

// SetLevel adjusts the minimum level emitted; the CLI uses it to switch
// between info output and, with --verbose, debug output.
func SetLevel(level zerolog.Level) {
	Logger = Logger.Level(level)
}

// Stage logs entry/exit and wall-clock duration for one pipeline stage.
// Usage: defer plog.Stage("plate")()
func Stage(name string) func() {
	start := time.Now()
	Logger.Debug().Str("stage", name).Msg("stage started")
	return func() {
		Logger.Debug().
			Str("stage", name).
			Dur("duration", time.Since(start)).
			Msg("stage finished")
	}
}
