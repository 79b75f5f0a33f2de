package main

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// newLogger builds the root hclog.Logger from -s/-v (spec.md §6, §7): -s
// drops the level to Error, each -v steps one level down from the default
// Warn, capping at Debug.
func newLogger(silent bool, verbose int) hclog.Logger {
	level := hclog.Warn
	switch {
	case silent:
		level = hclog.Error
	case verbose >= 2:
		level = hclog.Debug
	case verbose == 1:
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "tskpipe",
		Level:  level,
		Output: os.Stderr,
	})
}
