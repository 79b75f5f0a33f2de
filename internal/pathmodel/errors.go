package pathmodel

import "errors"

var (
	// ErrEmptySegment is returned when normalization encounters an
	// intermediate empty segment (two separators in a row after the
	// leading separator has been stripped).
	ErrEmptySegment = errors.New("empty path segment")

	// ErrNoMatch is a diagnostic-only error: a pattern matched nothing.
	// Callers treat it as non-fatal per spec.md §7 (Pattern errors).
	ErrNoMatch = errors.New("pattern matched no entries")
)
