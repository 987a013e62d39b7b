package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures the root logger for console output
func SetupLogger(debug bool, level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	if debug {
		parsed = log.DebugLevel
	}
	logger.SetLevel(parsed)
	return logger
}
