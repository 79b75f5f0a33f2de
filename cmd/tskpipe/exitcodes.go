package main

import (
	"errors"

	"tskpipe/internal/dispatcher"
	"tskpipe/internal/driver"
	"tskpipe/internal/imagebackend"
	"tskpipe/internal/toolregistry"
	"tskpipe/internal/yamlconfig"
)

// errUsage marks a CLI-level configuration/usage problem (spec.md §6 exit
// code 2) detected in cmd/tskpipe itself, before any internal package is
// reached — mutually exclusive flags, missing positional image paths, an
// unreadable tool-config or file-list path.
var errUsage = errors.New("usage error")

// Exit codes (spec.md §6): 0 success, 2 configuration/usage, 3 backend
// unavailability, 4 uncaught tool failure, 130 user cancellation.
const (
	exitOK            = 0
	exitUsage         = 2
	exitBackend       = 3
	exitToolFailure   = 4
	exitCancelled     = 130
	exitUnclassified  = 1
)

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, driver.ErrCancelled), errors.Is(err, dispatcher.ErrCancelled):
		return exitCancelled
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, yamlconfig.ErrBadShape),
		errors.Is(err, yamlconfig.ErrUnknownExtraArg),
		errors.Is(err, yamlconfig.ErrMissingToolRef),
		errors.Is(err, yamlconfig.ErrEmptyDocument),
		errors.Is(err, toolregistry.ErrUnknownTool),
		errors.Is(err, toolregistry.ErrUnknownExtraArg),
		errors.Is(err, toolregistry.ErrNoTemplateForOS):
		return exitUsage
	case errors.Is(err, imagebackend.ErrBackendUnavailable),
		errors.Is(err, imagebackend.ErrPartitionList),
		errors.Is(err, imagebackend.ErrUnknownVSType):
		return exitBackend
	case errors.Is(err, dispatcher.ErrToolFailed):
		return exitToolFailure
	case errors.Is(err, driver.ErrNoPartitionsSelected):
		return exitUsage
	default:
		return exitUnclassified
	}
}
