package resolver

import (
	"context"
	"testing"

	"tskpipe/internal/imagebackend"
	"tskpipe/internal/pathmodel"
)

func entriesFixture() []imagebackend.Entry {
	return []imagebackend.Entry{
		{ID: "1", Kind: imagebackend.KindDirectory, Name: "Users", Path: []string{"Users"}},
		{ID: "2", Kind: imagebackend.KindDirectory, Name: "bob", Path: []string{"Users", "bob"}},
		{ID: "3", Kind: imagebackend.KindDirectory, Name: "Desktop", Path: []string{"Users", "bob", "Desktop"}},
		{ID: "4", Kind: imagebackend.KindFile, Name: "notes.ini", Path: []string{"Users", "bob", "Desktop", "notes.ini"}},
		{ID: "5", Kind: imagebackend.KindDirectory, Name: "alice", Path: []string{"Users", "alice"}},
		{ID: "6", Kind: imagebackend.KindDirectory, Name: "Desktop", Path: []string{"Users", "alice", "Desktop"}},
		{ID: "7", Kind: imagebackend.KindFile, Name: "todo.txt", Path: []string{"Users", "alice", "Desktop", "todo.txt"}},
	}
}

func TestResolve_GlobMatchesAcrossSiblings(t *testing.T) {
	fake := imagebackend.NewFake()
	part := imagebackend.Partition{Slot: 0}
	fake.Entries = map[int][]imagebackend.Entry{0: entriesFixture()}

	r := New(fake)
	pat, _ := pathmodel.Normalize(`Users/*/Desktop`)
	got, err := r.Resolve(context.Background(), part, pat, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
	if got[0].Name != "Desktop" || got[0].Path[1] != "alice" {
		t.Fatalf("expected sorted-first match under alice, got %+v", got[0])
	}
}

func TestResolve_DirectoryPatternMatchesDirItselfNotContents(t *testing.T) {
	fake := imagebackend.NewFake()
	part := imagebackend.Partition{Slot: 0}
	fake.Entries = map[int][]imagebackend.Entry{0: entriesFixture()}

	r := New(fake)
	pat, _ := pathmodel.Normalize(`Users/bob/Desktop`)
	got, err := r.Resolve(context.Background(), part, pat, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Kind != imagebackend.KindDirectory {
		t.Fatalf("expected exactly the directory entry, got %+v", got)
	}
}

// TestResolve_Caching pins the §4.4 caching invariant and, transitively,
// §8 Testable Property 1 (pattern determinism): a second Resolve call for
// the same (partition, pattern) must not hit the backend again.
func TestResolve_Caching(t *testing.T) {
	fake := imagebackend.NewFake()
	part := imagebackend.Partition{Slot: 0}
	fake.Entries = map[int][]imagebackend.Entry{0: entriesFixture()}

	r := New(fake)
	pat, _ := pathmodel.Normalize(`Users/*/Desktop`)
	first, _ := r.Resolve(context.Background(), part, pat, false)
	second, _ := r.Resolve(context.Background(), part, pat, false)

	if got := fake.ListCalls(0); got != 1 {
		t.Fatalf("got %d backend ListEntries calls, want 1", got)
	}
	if len(first) != len(second) {
		t.Fatalf("inconsistent result across calls")
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("non-deterministic resolve at index %d", i)
		}
	}
}
