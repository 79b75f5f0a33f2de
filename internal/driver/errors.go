package driver

import "errors"

var (
	// ErrCancelled surfaces a user cancellation as the driver's terminal
	// status (spec.md §5, mapped to CLI exit code 130 in cmd/tskpipe).
	ErrCancelled = errors.New("run cancelled")

	// ErrNoPartitionsSelected is returned when partition selection yields
	// an empty set (no eligible partitions, or an explicit slot list that
	// matched nothing).
	ErrNoPartitionsSelected = errors.New("no partitions selected")
)
