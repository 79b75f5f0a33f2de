// Package driver sequences the top-level run: open backend, pick
// partitions, and for each selected partition stream resolve → extract →
// dispatch over the configured FileSpecs (component C8, spec.md §4.8).
package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"tskpipe/internal/dispatcher"
	"tskpipe/internal/expand"
	"tskpipe/internal/extractor"
	"tskpipe/internal/imagebackend"
	"tskpipe/internal/pathmodel"
	"tskpipe/internal/resolver"
	"tskpipe/internal/toolregistry"
	"tskpipe/internal/yamlconfig"
)

// SelectionMode names the partition-selection strategy (spec.md §6 flags
// -p, -P).
type SelectionMode int

const (
	SelectExplicit SelectionMode = iota
	SelectInteractive
	SelectAllEligible
)

// DefaultEligibleFSTypes is the default filesystem-type set for
// "all eligible" selection (spec.md §3: "default: NTFS").
var DefaultEligibleFSTypes = []string{"NTFS"}

// InteractivePicker lets a non-partition-aware component (the CLI) supply
// the -P interactive selection mechanism without the driver package
// depending on a terminal UI library (go-fuzzyfinder lives in
// cmd/tskpipe, per SPEC_FULL.md §3).
type InteractivePicker func(candidates []imagebackend.Partition) ([]imagebackend.Partition, error)

// Options configures one run (spec.md §4.8, §6).
type Options struct {
	Images  []string
	Backend imagebackend.Backend

	Selection        SelectionMode
	ExplicitSlots    []int
	EligibleFSTypes  []string
	Interactive      InteractivePicker

	FileSpecs []yamlconfig.FileSpec
	OutdirRoot string
	Registry  *toolregistry.Registry
	Funcs     expand.FuncTable

	CaseSensitive bool
	ListOnly      bool
	SaveAll       bool
	DryRun        bool
	Silent        bool

	// OnListEntries, when set, receives the resolved entries for a FileSpec
	// under -l list-only mode instead of the default plain-text printer —
	// the CLI uses this to apply its own styled rendering.
	OnListEntries func(pattern string, entries []imagebackend.Entry)

	Log hclog.Logger
}

// Driver runs one acquisition (spec.md §4.8).
type Driver struct {
	opts Options
}

// New returns a Driver for opts.
func New(opts Options) *Driver {
	if opts.Log == nil {
		opts.Log = hclog.NewNullLogger()
	}
	return &Driver{opts: opts}
}

// Run opens the backend, selects partitions, and processes each selected
// partition — in parallel workers when more than one is selected, each
// with its own OUTDIR_<slot> and partition-local caches (spec.md §5).
func (d *Driver) Run(ctx context.Context) error {
	all, err := d.opts.Backend.ListPartitions(ctx, d.opts.Images)
	if err != nil {
		return err
	}

	selected, err := d.selectPartitions(all)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return ErrNoPartitionsSelected
	}

	suffixOutdir := len(selected) > 1

	g, gctx := errgroup.WithContext(ctx)
	for _, part := range selected {
		part := part
		g.Go(func() error {
			return d.runPartition(gctx, part, suffixOutdir)
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			return ErrCancelled
		}
		return err
	}
	return nil
}

func (d *Driver) selectPartitions(all []imagebackend.Partition) ([]imagebackend.Partition, error) {
	switch d.opts.Selection {
	case SelectExplicit:
		wanted := make(map[int]bool, len(d.opts.ExplicitSlots))
		for _, s := range d.opts.ExplicitSlots {
			wanted[s] = true
		}
		var out []imagebackend.Partition
		for _, p := range all {
			if wanted[p.Slot] {
				out = append(out, p)
			}
		}
		return out, nil

	case SelectInteractive:
		if d.opts.Interactive == nil {
			return nil, fmt.Errorf("interactive selection requested but no picker configured")
		}
		return d.opts.Interactive(all)

	default: // SelectAllEligible
		types := d.opts.EligibleFSTypes
		if len(types) == 0 {
			types = DefaultEligibleFSTypes
		}
		eligible := make(map[string]bool, len(types))
		for _, t := range types {
			eligible[t] = true
		}
		var out []imagebackend.Partition
		for _, p := range all {
			if eligible[p.FSType] {
				out = append(out, p)
			}
		}
		return out, nil
	}
}

func (d *Driver) outdirFor(slot int, suffixed bool) string {
	if !suffixed {
		return d.opts.OutdirRoot
	}
	return fmt.Sprintf("%s_%d", d.opts.OutdirRoot, slot)
}

// runPartition processes every FileSpec against one partition, in
// declaration order, with all caches and guards scoped to this call
// (spec.md §5: "no guard state crosses workers").
func (d *Driver) runPartition(ctx context.Context, part imagebackend.Partition, suffixOutdir bool) error {
	outdir := d.outdirFor(part.Slot, suffixOutdir)
	log := d.opts.Log.Named(fmt.Sprintf("partition-%d", part.Slot))

	resv := resolver.New(d.opts.Backend)
	ex := extractor.New(d.opts.Backend, outdir, log)
	disp := dispatcher.New(d.opts.Registry, d.opts.Funcs, outdir, d.opts.CaseSensitive, log)
	disp.DryRun = d.opts.DryRun
	disp.Silent = d.opts.Silent
	rc := dispatcher.NewRunContext()

	var firstFatal error

	for fsIndex, fs := range d.opts.FileSpecs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pat, err := pathmodel.Normalize(fs.Pattern)
		if err != nil {
			log.Warn("bad pattern, skipping FileSpec", "pattern", fs.Pattern, "err", err)
			continue
		}

		entries, err := resv.Resolve(ctx, part, pat, d.opts.CaseSensitive)
		if err != nil {
			log.Error("resolve failed", "pattern", fs.Pattern, "err", err)
			continue
		}
		if len(entries) == 0 {
			log.Info("pattern matched no entries", "pattern", fs.Pattern)
			continue
		}

		if d.opts.ListOnly {
			if d.opts.OnListEntries != nil {
				d.opts.OnListEntries(fs.Pattern, entries)
			} else {
				for _, e := range entries {
					fmt.Println(joinPath(e.Path))
				}
			}
			continue
		}

		artifacts, extractErrs := ex.ExtractAll(ctx, part, entries, fs.Overwrite)
		for _, eerr := range extractErrs {
			log.Warn("extraction failed for entry", "err", eerr)
		}

		for _, a := range artifacts {
			rc.RecordSuccess(a.PartitionPath)
			if d.opts.SaveAll {
				continue
			}
			if err := d.dispatchArtifact(ctx, disp, rc, fsIndex, fs, a, log); err != nil {
				if firstFatal == nil {
					firstFatal = err
				}
			}
		}
	}

	return firstFatal
}

// dispatchArtifact runs every configured tool against a, in declaration
// order, abandoning the remaining tools for this artifact on the first
// non-allowed failure (spec.md §4.7 step 8) while letting the caller
// continue with other artifacts.
func (d *Driver) dispatchArtifact(ctx context.Context, disp *dispatcher.Dispatcher, rc *dispatcher.RunContext, fsIndex int, fs yamlconfig.FileSpec, a extractor.Artifact, log hclog.Logger) error {
	for tiIndex, ti := range fs.Tools {
		if err := disp.Dispatch(ctx, fsIndex, tiIndex, ti, a, rc); err != nil {
			if errors.Is(err, dispatcher.ErrCancelled) {
				return err
			}
			log.Error("tool invocation failed, abandoning remaining tools for artifact", "artifact", a.EntryPath(), "err", err)
			return err
		}
	}
	return nil
}

func joinPath(segs []string) string {
	out := ""
	for i, s := range segs {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}
