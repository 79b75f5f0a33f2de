package imagebackend

import (
	"context"
	"fmt"
)

// Fake is an in-memory Backend for use in other packages' tests: it avoids
// shelling out to a real sleuthkit toolchain while still exercising the
// Backend contract (memoized ListEntries, (partition, entry) error context).
type Fake struct {
	Partitions []Partition
	// Entries maps a partition slot to the Entry set ListEntries returns.
	// A caller populates Path on each Entry to describe its position in the
	// tree; ListEntries returns the whole slice for the slot, unfiltered.
	Entries map[int][]Entry
	// Content maps "<slot>/<entry id>" to the bytes Extract writes out.
	Content map[string]string
	// FailExtract, if set, names an entry ID whose Extract call fails.
	FailExtract string

	listCalls map[int]int
}

// NewFake returns an empty Fake backend.
func NewFake() *Fake {
	return &Fake{Entries: make(map[int][]Entry), Content: make(map[string]string), listCalls: make(map[int]int)}
}

func (f *Fake) ListPartitions(ctx context.Context, images []string) ([]Partition, error) {
	return f.Partitions, nil
}

// ListEntries returns all entries registered for the partition. Call count
// per partition is tracked so tests can assert memoization (spec.md §4.3).
func (f *Fake) ListEntries(ctx context.Context, part Partition, recursive bool) ([]Entry, error) {
	if f.listCalls == nil {
		f.listCalls = make(map[int]int)
	}
	f.listCalls[part.Slot]++
	return f.Entries[part.Slot], nil
}

// ListCalls reports how many times ListEntries was invoked for a partition,
// for asserting the memoization invariant from spec.md §4.3.
func (f *Fake) ListCalls(slot int) int { return f.listCalls[slot] }

func (f *Fake) Extract(ctx context.Context, part Partition, entry Entry, destHostPath string) error {
	if entry.ID == f.FailExtract {
		return fmt.Errorf("%w: (partition %d, entry %s): simulated failure", ErrExtract, part.Slot, entry.ID)
	}
	key := fmt.Sprintf("%d/%s", part.Slot, entry.ID)
	content, ok := f.Content[key]
	if !ok {
		return fmt.Errorf("%w: (partition %d, entry %s): no fake content registered", ErrExtract, part.Slot, entry.ID)
	}
	return writeFile(destHostPath, content)
}
