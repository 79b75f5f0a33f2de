// Package resolver turns a user pattern into a set of concrete filesystem
// entries within a chosen partition (component C4).
package resolver

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tskpipe/internal/imagebackend"
	"tskpipe/internal/pathmodel"
)

// Resolver resolves PathPatterns against partitions, caching results per
// (partition, pattern) for the run (spec.md §4.4).
type Resolver struct {
	backend imagebackend.Backend

	mu    sync.Mutex
	cache map[resolveKey][]imagebackend.Entry
}

type resolveKey struct {
	slot          int
	pattern       string
	caseSensitive bool
}

// New returns a Resolver backed by b. A fresh Resolver should be created
// per partition worker so caches never cross partitions (spec.md §5).
func New(b imagebackend.Backend) *Resolver {
	return &Resolver{backend: b, cache: make(map[resolveKey][]imagebackend.Entry)}
}

// Resolve walks pattern against partition's filesystem tree and returns the
// matching entries in deterministic, partition-relative-path-sorted order
// (spec.md §4.4, §4.7 "Ordering"; §8 Testable Property 1 determinism).
//
// A pattern ending in a directory segment matches the directory entry
// itself, not its contents — the Image Backend returns entries with their
// full path already populated, so this falls directly out of requiring an
// exact segment-count match before glob comparison.
func (r *Resolver) Resolve(ctx context.Context, part imagebackend.Partition, pattern pathmodel.PathPattern, caseSensitive bool) ([]imagebackend.Entry, error) {
	key := resolveKey{slot: part.Slot, pattern: pattern.String(), caseSensitive: caseSensitive}

	r.mu.Lock()
	if cached, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	all, err := r.backend.ListEntries(ctx, part, true)
	if err != nil {
		return nil, err
	}

	segCount := len(pathmodel.Split(pattern))
	var matched []imagebackend.Entry
	for _, e := range all {
		if len(e.Path) != segCount {
			continue
		}
		if pathmodel.Match(pattern, e.Path, caseSensitive) {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return strings.Join(matched[i].Path, "/") < strings.Join(matched[j].Path, "/")
	})

	r.mu.Lock()
	r.cache[key] = matched
	r.mu.Unlock()
	return matched, nil
}
