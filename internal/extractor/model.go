package extractor

import (
	"path/filepath"
	"strings"
)

// Artifact is the product of extracting one Entry (spec.md §3): a host
// filesystem location plus derived metadata used for template binding in
// the Dispatcher (component C7).
type Artifact struct {
	HostPath       string
	PartitionPath  []string // partition-relative path segments
	LeafName       string
	ParentHostPath string
	Username       string
	// Hash is a supplemental xxh3 content checksum, not part of the
	// original spec's Artifact shape. It backs the $HASH template binding
	// and a debug log line; spec.md §6 explicitly rules out a manifest
	// file, so this is the only place the checksum is surfaced.
	Hash string
}

// EntryPath joins the partition-relative path with '/' for display and for
// matching against `requires` patterns.
func (a Artifact) EntryPath() string {
	return strings.Join(a.PartitionPath, "/")
}

// deriveUsername implements the Username-derivation rule from the
// GLOSSARY: a partition-relative path matching "Users/<X>/…" or
// "home/<X>/…" (case-insensitive prefix, matching either Windows or Linux
// profile conventions) binds <X>; a lone "root" first segment binds
// "root"; anything else binds the empty string.
func deriveUsername(path []string) string {
	if len(path) == 0 {
		return ""
	}
	first := strings.ToLower(path[0])
	if first == "root" {
		return "root"
	}
	if (first == "users" || first == "home") && len(path) >= 2 {
		return path[1]
	}
	return ""
}

func hostPathFor(outdir string, path []string) string {
	return filepath.Join(append([]string{outdir}, path...)...)
}
