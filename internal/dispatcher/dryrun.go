package dispatcher

import (
	"fmt"

	"tskpipe/internal/extractor"
	"tskpipe/internal/yamlconfig"
)

// dryRunInvocation prints the command that would be launched for one
// artifact x tool-invocation pair, instead of executing it — the
// supplemental --dry-run mode (SPEC_FULL.md §4), grounded in the teacher's
// dryRunRunnable.
func (d *Dispatcher) dryRunInvocation(a extractor.Artifact, expanded string, out yamlconfig.ToolOutput) {
	fmt.Printf("[dry-run] artifact %q\n", a.EntryPath())
	fmt.Printf("  command: %s\n", expanded)
	fmt.Printf("  cwd:     %s\n", d.outdir)
	switch out.Mode {
	case yamlconfig.OutputInherit:
		fmt.Println("  output:  inherit")
	case yamlconfig.OutputDetailed:
		mode := "truncate-then-append"
		if out.Append {
			mode = "append"
		}
		stream := "stdout"
		if out.Stderr {
			stream = "stdout+stderr"
		}
		fmt.Printf("  output:  %s → %s (%s)\n", stream, out.Path, mode)
	}
}
