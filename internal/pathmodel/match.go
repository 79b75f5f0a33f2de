package pathmodel

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match reports whether entryPath (a concrete, literal sequence of segments
// from the partition tree) matches pattern, segment by segment.
//
// Separators never participate in glob matching — each pattern segment is
// matched only against the corresponding entry segment (spec.md §4.1).
// Case-insensitive comparison folds both sides to lowercase ASCII before
// matching, per spec.md's "simple ASCII folding" rule.
func Match(pattern PathPattern, entryPath []string, caseSensitive bool) bool {
	if len(pattern.Segments) != len(entryPath) {
		return false
	}
	for i, seg := range pattern.Segments {
		if !matchSegment(seg.Raw, entryPath[i], caseSensitive) {
			return false
		}
	}
	return true
}

// MatchLeaf matches a single glob pattern (no separators) against a bare
// name, such as a ToolInvocation's filter against an Artifact's leaf name
// (spec.md §4.1, used without separators involved).
func MatchLeaf(pattern, name string, caseSensitive bool) bool {
	return matchSegment(pattern, name, caseSensitive)
}

// matchSegment matches one pattern segment against one literal segment.
// '*' matches any run of non-separator characters, '?' matches exactly one
// non-separator character, and '[...]' matches any one enclosed character;
// since segments never contain separators, doublestar's single-component
// Match semantics apply directly.
func matchSegment(pattern, name string, caseSensitive bool) bool {
	p, n := pattern, name
	if !caseSensitive {
		p = foldASCII(p)
		n = foldASCII(n)
	}
	ok, err := doublestar.Match(p, n)
	if err != nil {
		// A malformed glob (e.g. unterminated character class) never
		// matches; resolver/dispatcher treat this the same as a miss.
		return false
	}
	return ok
}

// foldASCII lowercases only ASCII letters, leaving any other byte (and all
// glob metacharacters, which are themselves ASCII and already lowercase-safe)
// untouched. Unicode-aware folding is explicitly not required (spec.md §4.1).
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
