package resolver

import "errors"

// ErrNoMatch is a diagnostic-only condition (spec.md §7 Pattern kind): a
// pattern supplied via -f matched nothing. Resolve itself never returns
// this as an error value — callers check for an empty result and log it.
var ErrNoMatch = errors.New("pattern matched no entries")
