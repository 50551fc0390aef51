// Package config holds setup shared by the command line tools.
package config

import (
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger for the given verbosity flags.
// Debug takes precedence over quiet.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
