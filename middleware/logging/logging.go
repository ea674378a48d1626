// Package logging provides a pipeline.Middleware that logs step entry,
// exit, and recovered panics through zerolog — the "logger" collaborator
// named in the core's external-interface surface, kept entirely outside
// pipeline itself.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/flowforge/flowcore/pipeline"
)

// New returns a Middleware that logs each wrapped step's entry and exit
// through logger, and recovers any panic the step raises, converting it
// into a halted Result carrying the panic value under errKey (§7: the
// core's Parallel Executor contract propagates panics unrecovered; this
// middleware is how a caller opts into catching them instead).
func New(logger zerolog.Logger, stepName, errKey string) pipeline.Middleware {
	return func(next pipeline.StepFn) pipeline.StepFn {
		return func(r pipeline.Result) (out pipeline.Result) {
			start := time.Now()
			logger.Debug().Str("step", stepName).Msg("step start")

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().Str("step", stepName).Interface("panic", rec).Msg("step panicked")
					out = r.WithError(errKey, panicMessage(rec)).Halt(nil)
					return
				}
				logger.Debug().
					Str("step", stepName).
					Dur("elapsed", time.Since(start)).
					Bool("continuing", out.Continuing()).
					Msg("step done")
			}()

			out = next(r)
			return out
		}
	}
}

// NewDefault builds a console or JSON zerolog.Logger per format
// ("console" or "json"), writing to stderr, at the given level name.
func NewDefault(level, format string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	var writer io.Writer = os.Stderr
	if format != "json" {
		writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return zerolog.New(writer).Level(parsed).With().Timestamp().Logger()
}

func panicMessage(rec any) string {
	if err, ok := rec.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", rec)
}
