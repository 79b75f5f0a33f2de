package expand

import (
	"fmt"
	"runtime"
	"strings"
)

// Func is a single function-table entry: it receives the already-expanded,
// comma-split argument list of a ${FN:args} call and returns its
// replacement text.
type Func func(args []string) (string, error)

// FuncTable is an extensible registry of named functions available to
// ${FN:args} calls (spec.md §4.2: "the function table is extensible").
type FuncTable struct {
	fns map[string]Func
}

// NewFuncTable returns a FuncTable preloaded with the builtin functions
// PATH and REPLACE.
func NewFuncTable() FuncTable {
	t := FuncTable{fns: make(map[string]Func)}
	t.Register("PATH", pathFunc)
	t.Register("REPLACE", replaceFunc)
	return t
}

// Register adds or overrides a named function.
func (t FuncTable) Register(name string, fn Func) {
	t.fns[name] = fn
}

// Lookup returns the function bound to name, if any.
func (t FuncTable) Lookup(name string) (Func, bool) {
	fn, ok := t.fns[name]
	return fn, ok
}

// pathFunc implements ${PATH:p}: rewrites path separators in p to match the
// host OS, so a template can embed a forward-slash path regardless of where
// the extraction tool actually runs.
func pathFunc(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: PATH takes 1 argument, got %d", ErrBadArity, len(args))
	}
	p := args[0]
	if runtime.GOOS == "windows" {
		return strings.ReplaceAll(p, "/", `\`), nil
	}
	return strings.ReplaceAll(p, `\`, "/"), nil
}

// replaceFunc implements ${REPLACE:s,old,new}: every occurrence of old in s
// is replaced with new.
func replaceFunc(args []string) (string, error) {
	if len(args) != 3 {
		return "", fmt.Errorf("%w: REPLACE takes 3 arguments, got %d", ErrBadArity, len(args))
	}
	s, old, newv := args[0], args[1], args[2]
	return strings.ReplaceAll(s, old, newv), nil
}
