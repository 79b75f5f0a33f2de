// Package pathmodel normalizes and glob-matches partition-relative paths
// (component C1 of the extraction-and-dispatch engine).
package pathmodel

import (
	"fmt"
	"regexp"
	"strings"
)

// driveLetterRe matches a leading drive-letter prefix such as "C:" or "c:".
var driveLetterRe = regexp.MustCompile(`^[A-Za-z]:`)

// globMetaRe detects whether a segment contains glob metacharacters.
var globMetaRe = regexp.MustCompile(`[*?\[]`)

// Segment is one path component of a normalized PathPattern.
type Segment struct {
	// Raw is the segment text exactly as it appears after normalization
	// (case is preserved; folding happens at match time).
	Raw string
	// Glob is true when Raw contains any of *, ?, or [.
	Glob bool
}

// PathPattern is a normalized, partition-relative sequence of segments.
// See spec.md §3 "PathPattern".
type PathPattern struct {
	Segments []Segment
}

// String renders the pattern back into its internal-separator form, mostly
// useful for logging and error messages.
func (p PathPattern) String() string {
	parts := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		parts[i] = s.Raw
	}
	return strings.Join(parts, "/")
}

// HasGlob reports whether any segment of the pattern is a glob.
// A pattern with no glob metacharacters matches exactly one entry path
// (spec.md §4.1).
func (p PathPattern) HasGlob() bool {
	for _, s := range p.Segments {
		if s.Glob {
			return true
		}
	}
	return false
}

// Normalize turns a raw user-supplied path string into a PathPattern.
//
// Rules (spec.md §3):
//   - strip a leading drive-letter prefix ("C:\Users\..." → "Users\...")
//   - collapse mixed '/' and '\' separators to a single internal separator
//   - strip the leading separator, if any
//   - an intermediate empty segment (produced by a doubled separator after
//     the leading one is stripped) is an error
func Normalize(raw string) (PathPattern, error) {
	s := raw
	if driveLetterRe.MatchString(s) {
		s = s[2:]
	}

	// Collapse mixed separators to '/' before splitting.
	s = strings.ReplaceAll(s, `\`, "/")
	s = strings.TrimPrefix(s, "/")

	if s == "" {
		return PathPattern{}, nil
	}

	rawSegments := strings.Split(s, "/")
	segments := make([]Segment, 0, len(rawSegments))
	for i, rs := range rawSegments {
		if rs == "" {
			// A trailing empty segment from a terminal separator is
			// dropped silently; any other empty segment is an error.
			if i == len(rawSegments)-1 {
				continue
			}
			return PathPattern{}, fmt.Errorf("%w: %q", ErrEmptySegment, raw)
		}
		segments = append(segments, Segment{
			Raw:  rs,
			Glob: globMetaRe.MatchString(rs),
		})
	}

	return PathPattern{Segments: segments}, nil
}

// Join appends child segments (already-normalized, literal) to a base
// pattern, returning a new PathPattern. Neither argument is mutated.
func Join(base PathPattern, children ...string) PathPattern {
	out := PathPattern{Segments: append([]Segment(nil), base.Segments...)}
	for _, c := range children {
		out.Segments = append(out.Segments, Segment{
			Raw:  c,
			Glob: globMetaRe.MatchString(c),
		})
	}
	return out
}

// Split returns the pattern's segments as plain strings, in order.
func Split(p PathPattern) []string {
	out := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		out[i] = s.Raw
	}
	return out
}
