/*
Package logx wraps zerolog behind a small set of leveled helpers.

Init configures the global logger once at startup; everything else in the
application logs through Logger() or the package-level helpers so that
output format and level are decided in exactly one place.
*/
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets up the global zerolog instance.
// Development gets a colored console writer at Debug level; any other
// environment gets plain JSON at Info level. Caller info is always attached.
func Init(isDevelopment bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if isDevelopment {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	log.Logger = logger.With().Caller().Logger()
}

// Logger returns the global zerolog.Logger.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// evenFields drops the field list entirely when it is not made of key-value
// pairs, so a bad call site degrades to a plain message instead of panicking
// inside zerolog.
func evenFields(level string, fields []any) []any {
	if len(fields)%2 != 0 {
		Logger().Warn().
			Int("fields_count", len(fields)).
			Str("log_level", level).
			Msg("logx called with an odd number of fields; fields dropped")
		return nil
	}
	return fields
}

// Info logs msg at Info level with optional key-value fields.
func Info(msg string, fields ...any) {
	Logger().Info().
		Fields(evenFields("info", fields)).
		CallerSkipFrame(1).
		Msg(msg)
}

// Warn logs msg at Warn level with optional key-value fields.
func Warn(msg string, fields ...any) {
	Logger().Warn().
		Fields(evenFields("warn", fields)).
		CallerSkipFrame(1).
		Msg(msg)
}

// Error logs err and msg at Error level with optional key-value fields.
func Error(err error, msg string, fields ...any) {
	Logger().Error().
		Err(err).
		Fields(evenFields("error", fields)).
		CallerSkipFrame(1).
		Msg(msg)
}

// Fatal logs err and msg at Fatal level and exits the process.
func Fatal(err error, msg string, fields ...any) {
	Logger().Fatal().
		Err(err).
		Fields(evenFields("fatal", fields)).
		CallerSkipFrame(1).
		Msg(msg)
}
