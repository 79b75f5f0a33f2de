// Package dispatcher orchestrates per-artifact tool invocations: filter,
// require-gate, run-once, output redirection, and failure policy
// (component C7, spec.md §4.7).
package dispatcher

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/shirou/gopsutil/v4/process"

	"tskpipe/internal/expand"
	"tskpipe/internal/extractor"
	"tskpipe/internal/pathmodel"
	"tskpipe/internal/toolregistry"
	"tskpipe/internal/yamlconfig"
)

// DefaultGraceWindow is how long a cancelled process is given to exit
// after a terminate signal before it is force-killed (spec.md §5).
const DefaultGraceWindow = 5 * time.Second

// Dispatcher executes ToolInvocations against Artifacts (spec.md §4.7).
// One Dispatcher is constructed per partition worker so that its
// registry/funcs are shared read-only state while RunContext carries the
// mutable, partition-local bookkeeping (spec.md §5, §9).
type Dispatcher struct {
	registry      *toolregistry.Registry
	funcs         expand.FuncTable
	log           hclog.Logger
	outdir        string
	caseSensitive bool

	DryRun      bool
	Silent      bool
	GraceWindow time.Duration
}

// New returns a Dispatcher that expands templates against outdir and
// dispatches through registry.
func New(registry *toolregistry.Registry, funcs expand.FuncTable, outdir string, caseSensitive bool, log hclog.Logger) *Dispatcher {
	return &Dispatcher{
		registry:      registry,
		funcs:         funcs,
		log:           log.Named("dispatcher"),
		outdir:        outdir,
		caseSensitive: caseSensitive,
		GraceWindow:   DefaultGraceWindow,
	}
}

// Dispatch runs the eight-step algorithm from spec.md §4.7 for one
// (Artifact, ToolInvocation) pair. fsIndex/invIndex identify the owning
// FileSpec and the invocation's position within it, for the run-once guard.
func (d *Dispatcher) Dispatch(ctx context.Context, fsIndex, invIndex int, ti yamlconfig.ToolInvocation, artifact extractor.Artifact, rc *RunContext) error {
	var def yamlconfig.ToolDef
	defaultAllowFail := false

	// Step 1: enablement.
	if ti.Name != "" {
		resolved, err := d.registry.Resolve(ti.Name)
		if err != nil {
			return err
		}
		def = resolved
		defaultAllowFail = def.AllowFail
		if !def.Enabled {
			d.log.Debug("tool disabled, skipping", "tool", ti.Name)
			return nil
		}
	}

	// Step 2: filter.
	if ti.Filter != "" && !pathmodel.MatchLeaf(ti.Filter, artifact.LeafName, d.caseSensitive) {
		d.log.Trace("filter did not match, skipping", "filter", ti.Filter, "leaf", artifact.LeafName)
		return nil
	}

	// Step 3: requires gate.
	if len(ti.Requires) > 0 && !rc.RequiresSatisfied(ti.Requires, d.caseSensitive) {
		d.log.Info("requires not satisfied, skipping", "requires", ti.Requires, "artifact", artifact.EntryPath())
		return nil
	}

	// Step 4: run-once. The guard fires before launch so a failed launch
	// still counts as fired.
	if ti.RunOnce && !rc.TryFireRunOnce(fsIndex, invIndex) {
		return nil
	}

	// Step 5: template build.
	env := d.baseEnvironment(artifact, time.Now())
	env = withExtra(env, ti.Extra)

	var template string
	if ti.Name != "" {
		built, err := d.registry.BuildCommand(def, ti.Extra)
		if err != nil {
			return err
		}
		template = built
	} else {
		template = ti.Cmd
	}

	expanded, err := expand.Expand(template, env, d.funcs)
	if err != nil {
		return fmt.Errorf("tool %q: %w", invocationLabel(ti), err)
	}

	if d.DryRun {
		d.dryRunInvocation(artifact, expanded, ti.Output)
		return nil
	}

	// Step 6: output routing.
	routed, err := d.routeOutput(ti.Output, rc)
	if err != nil {
		return fmt.Errorf("tool %q: routing output: %w", invocationLabel(ti), err)
	}
	defer routed.close()

	// Step 7: execution.
	exitCode, runErr := d.run(ctx, expanded, routed)
	if runErr != nil {
		return runErr
	}

	// Step 8: failure policy.
	if exitCode != 0 {
		effective := ti.AllowFail.Resolve(defaultAllowFail)
		if effective {
			d.log.Warn("tool exited non-zero, continuing", "tool", invocationLabel(ti), "exit", exitCode)
			return nil
		}
		return fmt.Errorf("%w: %s exited %d", ErrToolFailed, invocationLabel(ti), exitCode)
	}
	return nil
}

func invocationLabel(ti yamlconfig.ToolInvocation) string {
	if ti.Name != "" {
		return ti.Name
	}
	return ti.Cmd
}

// run spawns expanded as a shell command with cwd = OUTDIR (spec.md §4.7
// step 7), always shelling out per spec.md §9's compatibility note. On
// cancellation it sends a terminate signal, waits the full GraceWindow, and
// then force-kills the process if it is still running (spec.md §5), using gopsutil/v4/process
// for a cross-platform terminate/kill pair.
func (d *Dispatcher) run(ctx context.Context, expanded string, out routedOutput) (int, error) {
	name, args := shellCommand(expanded)
	cmd := exec.Command(name, args...)
	cmd.Dir = d.outdir
	cmd.Stdout = out.stdout
	cmd.Stderr = out.stderr

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrToolFailed, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return exitCodeOf(cmd, err)
	case <-ctx.Done():
		d.terminateThenKill(cmd.Process.Pid)
		<-done
		return 0, fmt.Errorf("%w", ErrCancelled)
	}
}

func (d *Dispatcher) terminateThenKill(pid int) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return
	}
	_ = p.Terminate()
	timer := time.NewTimer(d.GraceWindow)
	defer timer.Stop()
	<-timer.C
	if running, _ := p.IsRunning(); running {
		_ = p.Kill()
	}
}

func exitCodeOf(cmd *exec.Cmd, waitErr error) (int, error) {
	if waitErr == nil {
		return 0, nil
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("%w: %v", ErrToolFailed, waitErr)
}

// shellCommand wraps expanded in the host's shell, since templates may rely
// on shell features like `>&2`, `;`, and pipelines (spec.md §9).
func shellCommand(expanded string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", expanded}
	}
	return "/bin/sh", []string{"-c", expanded}
}
