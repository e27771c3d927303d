package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// Logger returns the process wide console logger
func Logger() zerolog.Logger {
	return logger
}

// SetLogLevel parses one of trace, debug, info, warn, error and applies it
// globally
func SetLogLevel(level string) (err error) {
	var (
		lvl zerolog.Level
	)
	if lvl, err = zerolog.ParseLevel(level); err != nil {
		return
	}
	zerolog.SetGlobalLevel(lvl)
	return
}
