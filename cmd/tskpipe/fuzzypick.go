package main

import (
	"errors"
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"

	"tskpipe/internal/imagebackend"
)

// pickPartitionsInteractively implements -P (spec.md §6) with the same
// terminal fuzzy-finder the teacher's partition/process pickers use.
func pickPartitionsInteractively(candidates []imagebackend.Partition) ([]imagebackend.Partition, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	idxs, err := fuzzyfinder.FindMulti(
		candidates,
		func(i int) string {
			p := candidates[i]
			return fmt.Sprintf("%d: %s (offset %d, size %d)", p.Slot, p.FSType, p.Offset, p.Size)
		},
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]imagebackend.Partition, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, candidates[i])
	}
	return out, nil
}
