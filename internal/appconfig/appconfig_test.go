package appconfig

import "testing"

func TestResolve_DefaultsOnly(t *testing.T) {
	t.Setenv("TSKPIPE_TOOL_CONFIG", "")
	t.Setenv("TSKPIPE_OUTDIR", "")
	opts, err := Resolve(CLIOverrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.ToolConfigPath != "config.yaml" || opts.OutdirRoot != "extracted" {
		t.Fatalf("got %+v, want defaults", opts)
	}
}

func TestResolve_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("TSKPIPE_OUTDIR", "/mnt/case42")
	opts, err := Resolve(CLIOverrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.OutdirRoot != "/mnt/case42" {
		t.Fatalf("got %q, want env override", opts.OutdirRoot)
	}
}

func TestResolve_CLIOverridesEnv(t *testing.T) {
	t.Setenv("TSKPIPE_OUTDIR", "/mnt/case42")
	opts, err := Resolve(CLIOverrides{OutdirRoot: "/mnt/flagwins", OutdirRootSet: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.OutdirRoot != "/mnt/flagwins" {
		t.Fatalf("got %q, want CLI flag to win", opts.OutdirRoot)
	}
}

func TestResolve_CaseSensitiveEnvParse(t *testing.T) {
	t.Setenv("TSKPIPE_CASE_SENSITIVE", "true")
	opts, err := Resolve(CLIOverrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.CaseSensitive {
		t.Fatalf("expected case sensitive true from env")
	}
}
