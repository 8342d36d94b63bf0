package common

import (
	"os"

	"github.com/phuslu/log"
)

// NewLogger builds the process logger from config. Console format is
// the default; json is for when the output is collected by something.
func NewLogger(cfg LoggingConfig) log.Logger {
	l := log.Logger{
		Level:      log.ParseLevel(cfg.Level),
		TimeFormat: "15:04:05",
		Writer:     &log.IOWriter{Writer: os.Stderr},
	}
	if cfg.Format != "json" {
		l.Writer = &log.ConsoleWriter{
			ColorOutput: true,
			Writer:      os.Stderr,
		}
	}
	return l
}
