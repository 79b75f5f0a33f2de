package expand

import "errors"

var (
	// ErrUnmatchedBrace is returned when a ${...} function call has no
	// matching closing brace.
	ErrUnmatchedBrace = errors.New("unmatched brace in function call")

	// ErrUnknownFunction is returned when a ${FN:...} call references a
	// function name not present in the function table.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrMaxDepthExceeded is returned when nested ${...} calls exceed
	// MaxFunctionDepth (spec.md §9: "suggested limit: 16").
	ErrMaxDepthExceeded = errors.New("function nesting exceeds maximum depth")

	// ErrBadArity is returned when a builtin function receives the wrong
	// number of arguments.
	ErrBadArity = errors.New("wrong number of arguments")
)
