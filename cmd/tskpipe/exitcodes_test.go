package main

import (
	"testing"

	"tskpipe/internal/dispatcher"
	"tskpipe/internal/driver"
	"tskpipe/internal/imagebackend"
	"tskpipe/internal/toolregistry"
)

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"cancelled", driver.ErrCancelled, exitCancelled},
		{"usage", errUsage, exitUsage},
		{"backend", imagebackend.ErrPartitionList, exitBackend},
		{"tool failure", dispatcher.ErrToolFailed, exitToolFailure},
		{"no partitions", driver.ErrNoPartitionsSelected, exitUsage},
		{"unknown tool", toolregistry.ErrUnknownTool, exitUsage},
		{"unknown extra arg", toolregistry.ErrUnknownExtraArg, exitUsage},
		{"no template for os", toolregistry.ErrNoTemplateForOS, exitUsage},
	}
	for _, c := range cases {
		if got := exitCodeFor(c.err); got != c.want {
			t.Errorf("%s: got %d, want %d", c.name, got, c.want)
		}
	}
}
