// Package logging configures the process-wide zerolog logger for the CLI.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger from MEDIAKIT_LOG_LEVEL: trace, debug,
// info, warn, error or quiet (default: info). Values are case-insensitive.
// Output is a human-readable console stream on stderr; renders run locally and
// interactively, so there is no JSON sink.
func Init() {
	zerolog.SetGlobalLevel(parseLevel(os.Getenv("MEDIAKIT_LOG_LEVEL")))
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "quiet", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
