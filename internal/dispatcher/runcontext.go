package dispatcher

import (
	"strings"
	"sync"

	"tskpipe/internal/pathmodel"
)

// RunContext bundles the partition-scoped mutable state the Dispatcher
// needs across a run: the run-once guard, the successful-extraction set,
// and output-truncation bookkeeping (spec.md §9 "Global-ish state" —
// threaded explicitly rather than held in a package singleton, so
// parallel partition workers never share guard state, per spec.md §5).
type RunContext struct {
	mu sync.Mutex

	runOnceFired    map[runOnceKey]bool
	successfulPaths []string
	truncatedPaths  map[string]bool
}

type runOnceKey struct {
	fileSpecIndex int
	invocationIndex int
}

// NewRunContext returns an empty RunContext for one partition worker.
func NewRunContext() *RunContext {
	return &RunContext{
		runOnceFired:   make(map[runOnceKey]bool),
		truncatedPaths: make(map[string]bool),
	}
}

// TryFireRunOnce marks (fileSpecIndex, invocationIndex) as fired and
// reports whether this call is the one that fired it. The guard is set
// unconditionally on the first call regardless of what the caller does
// next, so a failed launch still counts as "fired" (spec.md §4.7 step 4).
func (rc *RunContext) TryFireRunOnce(fileSpecIndex, invocationIndex int) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	key := runOnceKey{fileSpecIndex, invocationIndex}
	if rc.runOnceFired[key] {
		return false
	}
	rc.runOnceFired[key] = true
	return true
}

// RecordSuccess adds a partition-relative path to the successful-extraction
// set (spec.md GLOSSARY, §4.7 step 3).
func (rc *RunContext) RecordSuccess(path []string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.successfulPaths = append(rc.successfulPaths, strings.Join(path, "/"))
}

// RequiresSatisfied reports whether every pattern in requires has produced
// at least one successful extraction so far (spec.md §4.7 step 3).
func (rc *RunContext) RequiresSatisfied(requires []string, caseSensitive bool) bool {
	rc.mu.Lock()
	paths := append([]string(nil), rc.successfulPaths...)
	rc.mu.Unlock()

	for _, raw := range requires {
		pat, err := pathmodel.Normalize(raw)
		if err != nil {
			return false
		}
		segCount := len(pathmodel.Split(pat))
		satisfied := false
		for _, p := range paths {
			segs := strings.Split(p, "/")
			if len(segs) != segCount {
				continue
			}
			if pathmodel.Match(pat, segs, caseSensitive) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// FirstWriteForRun reports whether path has not yet been written to this
// run, and marks it written. Used to implement truncate-on-first-write,
// append-thereafter output semantics (spec.md §4.7 step 6).
func (rc *RunContext) FirstWriteForRun(path string) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.truncatedPaths[path] {
		return false
	}
	rc.truncatedPaths[path] = true
	return true
}
