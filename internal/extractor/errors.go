package extractor

import "errors"

var (
	// ErrInsufficientSpace is returned by the free-space preflight when the
	// destination filesystem does not have enough room for a large entry.
	ErrInsufficientSpace = errors.New("insufficient free space for extraction")

	// ErrPartialWrite wraps a backend or host I/O failure that occurred
	// mid-extraction; the partially written host file is removed best-effort.
	ErrPartialWrite = errors.New("extraction failed, partial write removed")
)
