package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var log = newLogger()

func newLogger() zerolog.Logger {
	if os.Getenv("LEADPILOT_LOG_PRETTY") == "1" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// SetLevel sets the global log level: debug, info, warn, error.
// Unknown values fall back to info.
func SetLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func emit(ev *zerolog.Event, component, msg string, fields map[string]interface{}) {
	ev = ev.Str("component", component)
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func DebugC(component, msg string) { DebugCF(component, msg, nil) }
func InfoC(component, msg string)  { InfoCF(component, msg, nil) }
func WarnC(component, msg string)  { WarnCF(component, msg, nil) }
func ErrorC(component, msg string) { ErrorCF(component, msg, nil) }

func DebugCF(component, msg string, fields map[string]interface{}) {
	emit(log.Debug(), component, msg, fields)
}

func InfoCF(component, msg string, fields map[string]interface{}) {
	emit(log.Info(), component, msg, fields)
}

func WarnCF(component, msg string, fields map[string]interface{}) {
	emit(log.Warn(), component, msg, fields)
}

func ErrorCF(component, msg string, fields map[string]interface{}) {
	emit(log.Error(), component, msg, fields)
}
