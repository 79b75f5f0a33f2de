package dispatcher

import "errors"

var (
	// ErrToolFailed is returned when a process exits non-zero and the
	// effective allow_fail is false (spec.md §4.7 step 8).
	ErrToolFailed = errors.New("tool invocation failed")

	// ErrCancelled is returned when a dispatch is aborted by a cancellation
	// signal (spec.md §5, §7).
	ErrCancelled = errors.New("dispatch cancelled")
)
