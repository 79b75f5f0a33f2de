package imagebackend

import (
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestNormalizeFSType(t *testing.T) {
	cases := map[string]string{
		"NTFS":            "NTFS",
		"Win95 FAT32":     "FAT32",
		"DOS FAT16":       "FAT16",
		"Linux (0x83)":    "LINUX (0X83)",
		"Linux Ext4":      "EXT",
		"Mac HFS+":        "HFS",
	}
	for desc, want := range cases {
		if got := normalizeFSType(desc); got != want {
			t.Fatalf("normalizeFSType(%q) = %q, want %q", desc, got, want)
		}
	}
}

func TestMmlsLineRe(t *testing.T) {
	line := "002:  002   2048   206847   204800   NTFS (0x07)"
	m := mmlsLineRe.FindStringSubmatch(line)
	if m == nil {
		t.Fatalf("expected mmls line to match, got no match for %q", line)
	}
	if m[1] != "2048" {
		t.Fatalf("offset = %q, want 2048", m[1])
	}
	if m[2] != "204800" {
		t.Fatalf("size = %q, want 204800", m[2])
	}
}

func TestFlsLineRe(t *testing.T) {
	cases := []struct {
		line     string
		wantKind string
		wantID   string
		wantName string
	}{
		{"d/d 5: Users", "d", "5", "Users"},
		{"r/r 12-128-1: $MFT", "r", "12-128-1", "$MFT"},
	}
	for _, c := range cases {
		m := flsLineRe.FindStringSubmatch(c.line)
		if m == nil {
			t.Fatalf("expected fls line %q to match", c.line)
		}
		if m[1] != c.wantKind || m[2] != c.wantID || m[3] != c.wantName {
			t.Fatalf("parsed (%q,%q,%q), want (%q,%q,%q)", m[1], m[2], m[3], c.wantKind, c.wantID, c.wantName)
		}
	}
}

func TestFlsLineRe_FullPath(t *testing.T) {
	line := "r/r 12-128-1: Users/bob/Desktop/notes.txt"
	m := flsLineRe.FindStringSubmatch(line)
	if m == nil {
		t.Fatalf("expected fls -p line to match")
	}
	if m[3] != "Users/bob/Desktop/notes.txt" {
		t.Fatalf("got %q, want the full slash-joined path", m[3])
	}
}

// TestFlsArgs_IncludesImages pins the bug where fls/icat argv never carried
// the image path mmls was run against (spec.md §4.3: every invocation
// addresses the same image(s)).
func TestFlsArgs_IncludesImages(t *testing.T) {
	a := NewAdapter(Options{ImgType: "raw"}, hclog.NewNullLogger())
	a.images = []string{"case.dd"}
	part := Partition{Slot: 0, handle: "2048"}

	args := a.flsArgs(part, true)
	if got := args[len(args)-1]; got != "case.dd" {
		t.Fatalf("flsArgs = %v, want image path as last arg", args)
	}
}

func TestIcatArgs_IncludesImagesBeforeEntryID(t *testing.T) {
	a := NewAdapter(Options{ImgType: "raw"}, hclog.NewNullLogger())
	a.images = []string{"case.dd"}
	part := Partition{Slot: 0, handle: "2048"}

	args := a.icatArgs(part, Entry{ID: "128"})

	if args[len(args)-2] != "case.dd" || args[len(args)-1] != "128" {
		t.Fatalf("icat args = %v, want image path immediately before the entry id", args)
	}
}
