package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"tskpipe/internal/imagebackend"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	itemStyle    = lipgloss.NewStyle().PaddingLeft(2)
)

// printSupportedValues renders the -t list / -i list short-circuit output
// (spec.md §6).
func printSupportedValues(heading string, values []string) {
	fmt.Println(headingStyle.Render(heading))
	for _, v := range values {
		fmt.Println(itemStyle.Render(v))
	}
}

// printResolvedEntries renders -l list-only output: one styled line per
// matched entry, partition-relative path joined with "/".
func printResolvedEntries(pattern string, entries []imagebackend.Entry) {
	fmt.Println(headingStyle.Render(pattern))
	for _, e := range entries {
		fmt.Println(itemStyle.Render(joinEntryPath(e)))
	}
}

func joinEntryPath(e imagebackend.Entry) string {
	out := ""
	for i, seg := range e.Path {
		if i > 0 {
			out += "/"
		}
		out += seg
	}
	return out
}
