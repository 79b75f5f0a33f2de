package dispatcher

import (
	"io"
	"os"
	"path/filepath"

	"tskpipe/internal/yamlconfig"
)

// routedOutput holds the stdout/stderr writers for one invocation along
// with any files that must be closed after the process exits.
type routedOutput struct {
	stdout io.Writer
	stderr io.Writer
	files  []*os.File
}

func (r routedOutput) close() {
	for _, f := range r.files {
		f.Close()
	}
}

// routeOutput implements spec.md §4.7 step 6: absent output inherits the
// host process's streams (silenced on stdout only when the Dispatcher runs
// in silent mode, per spec.md §7); a configured path truncates on the
// run's first write to that path and appends thereafter, unless append is
// explicitly requested, in which case every write appends.
func (d *Dispatcher) routeOutput(out yamlconfig.ToolOutput, rc *RunContext) (routedOutput, error) {
	if out.Mode == yamlconfig.OutputInherit {
		stdout := io.Writer(os.Stdout)
		if d.Silent {
			stdout = io.Discard
		}
		return routedOutput{stdout: stdout, stderr: os.Stderr}, nil
	}

	if err := os.MkdirAll(filepath.Dir(out.Path), 0o755); err != nil {
		return routedOutput{}, err
	}

	flags := os.O_CREATE | os.O_WRONLY
	if out.Append {
		flags |= os.O_APPEND
	} else if rc.FirstWriteForRun(out.Path) {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	f, err := os.OpenFile(out.Path, flags, 0o644)
	if err != nil {
		return routedOutput{}, err
	}

	r := routedOutput{stdout: f, files: []*os.File{f}}
	if out.Stderr {
		r.stderr = f
	} else {
		r.stderr = os.Stderr
	}
	return r, nil
}
