package dispatcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"

	"tskpipe/internal/expand"
	"tskpipe/internal/extractor"
	"tskpipe/internal/toolregistry"
	"tskpipe/internal/yamlconfig"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, string) {
	t.Helper()
	dir := t.TempDir()
	reg := toolregistry.New(yamlconfig.ToolConfig{})
	d := New(reg, expand.NewFuncTable(), dir, false, hclog.NewNullLogger())
	return d, dir
}

func artifactFixture(outdir string) extractor.Artifact {
	return extractor.Artifact{
		HostPath:      filepath.Join(outdir, "MFT"),
		PartitionPath: []string{"$MFT"},
		LeafName:      "$MFT",
	}
}

// TestDispatch_S1_SingleFileInlineCommand pins spec.md §8 scenario S1.
func TestDispatch_S1_SingleFileInlineCommand(t *testing.T) {
	d, outdir := newTestDispatcher(t)
	outPath := filepath.Join(outdir, "out.log")
	ti := yamlconfig.ToolInvocation{
		Cmd:    `echo "Test USERNAME: $FILE - $USERNAME" > ` + outPath,
		Output: yamlconfig.ToolOutput{Mode: yamlconfig.OutputInherit},
	}
	err := d.Dispatch(context.Background(), 0, 0, ti, artifactFixture(outdir), NewRunContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDispatch_FilterSkipsNonMatchingLeaf(t *testing.T) {
	d, outdir := newTestDispatcher(t)
	ran := filepath.Join(outdir, "ran")
	ti := yamlconfig.ToolInvocation{Cmd: "touch " + ran, Filter: "*.ini"}
	a := artifactFixture(outdir)
	a.LeafName = "notes.txt"
	if err := d.Dispatch(context.Background(), 0, 0, ti, a, NewRunContext()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(ran); err == nil {
		t.Fatalf("expected filter to skip execution")
	}
}

func TestDispatch_RequiresGateSkipsUntilSatisfied(t *testing.T) {
	d, outdir := newTestDispatcher(t)
	ran := filepath.Join(outdir, "ran")
	ti := yamlconfig.ToolInvocation{Cmd: "touch " + ran, Requires: []string{`Users/*/Desktop`}}
	rc := NewRunContext()

	if err := d.Dispatch(context.Background(), 0, 0, ti, artifactFixture(outdir), rc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(ran); err == nil {
		t.Fatalf("expected requires gate to skip when unsatisfied")
	}

	rc.RecordSuccess([]string{"Users", "bob", "Desktop"})
	if err := d.Dispatch(context.Background(), 0, 0, ti, artifactFixture(outdir), rc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(ran); err != nil {
		t.Fatalf("expected requires gate to allow execution once satisfied")
	}
}

// TestDispatch_RunOnce pins spec.md §8 Testable Property 3.
func TestDispatch_RunOnce(t *testing.T) {
	d, outdir := newTestDispatcher(t)
	counter := filepath.Join(outdir, "counter")
	ti := yamlconfig.ToolInvocation{Cmd: "echo x >> " + counter, RunOnce: true}
	rc := NewRunContext()

	for i := 0; i < 3; i++ {
		if err := d.Dispatch(context.Background(), 0, 0, ti, artifactFixture(outdir), rc); err != nil {
			t.Fatalf("unexpected error on iteration %d: %v", i, err)
		}
	}
	data, err := os.ReadFile(counter)
	if err != nil {
		t.Fatalf("expected run-once invocation to have fired once: %v", err)
	}
	if got := string(data); got != "x\n" {
		t.Fatalf("got %q, want exactly one fire", got)
	}
}

// TestDispatch_S5_AllowFailOverride pins spec.md §8 scenario S5 and
// Testable Property 6.
func TestDispatch_S5_AllowFailOverride(t *testing.T) {
	d, outdir := newTestDispatcher(t)
	cmd := "echo 'X' >&2; exit 42"

	allowed := yamlconfig.ToolInvocation{Cmd: cmd, AllowFail: yamlconfig.ForceTrue}
	if err := d.Dispatch(context.Background(), 0, 0, allowed, artifactFixture(outdir), NewRunContext()); err != nil {
		t.Fatalf("expected allow_fail=true to swallow the failure, got %v", err)
	}

	disallowed := yamlconfig.ToolInvocation{Cmd: cmd, AllowFail: yamlconfig.ForceFalse}
	err := d.Dispatch(context.Background(), 0, 0, disallowed, artifactFixture(outdir), NewRunContext())
	if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed when allow_fail=false, got %v", err)
	}
}

func TestDispatch_DisabledToolSkipsAsSuccess(t *testing.T) {
	dir := t.TempDir()
	reg := toolregistry.New(yamlconfig.ToolConfig{Tools: []yamlconfig.ToolDef{
		{Name: "disabled", Cmd: yamlconfig.CmdTemplate{Single: "false"}, Enabled: false},
	}})
	d := New(reg, expand.NewFuncTable(), dir, false, hclog.NewNullLogger())
	ti := yamlconfig.ToolInvocation{Name: "disabled"}
	if err := d.Dispatch(context.Background(), 0, 0, ti, artifactFixture(dir), NewRunContext()); err != nil {
		t.Fatalf("expected disabled tool to succeed as a no-op, got %v", err)
	}
}

func TestDispatch_DryRunDoesNotExecute(t *testing.T) {
	d, outdir := newTestDispatcher(t)
	d.DryRun = true
	marker := filepath.Join(outdir, "marker")
	ti := yamlconfig.ToolInvocation{Cmd: "touch " + marker}
	if err := d.Dispatch(context.Background(), 0, 0, ti, artifactFixture(outdir), NewRunContext()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(marker); err == nil {
		t.Fatalf("dry-run must not execute the command")
	}
}

func TestRunContext_OutputTruncateThenAppend(t *testing.T) {
	rc := NewRunContext()
	if !rc.FirstWriteForRun("/tmp/x.log") {
		t.Fatalf("expected first write to report true")
	}
	if rc.FirstWriteForRun("/tmp/x.log") {
		t.Fatalf("expected second write to report false (append)")
	}
}
