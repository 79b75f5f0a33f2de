// Package extractor materializes resolved entries onto the host filesystem,
// honoring the overwrite policy and the per-(partition, entry) single-
// extraction invariant (component C5).
package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/zeebo/xxh3"

	"tskpipe/internal/imagebackend"
)

// Extractor materializes Entries under a fixed OUTDIR root for one
// partition worker (spec.md §5: all extractor state is partition-local).
type Extractor struct {
	backend imagebackend.Backend
	outdir  string
	log     hclog.Logger

	// FreeSpaceThresholdBytes gates the preflight check in extractFile: a
	// file whose reported size is below this threshold skips the disk
	// check entirely (the common case for small forensic artifacts).
	// Zero disables the preflight.
	FreeSpaceThresholdBytes int64

	mu        sync.Mutex
	extracted map[string]Artifact // key: "<slot>/<entry id>"
}

// New returns an Extractor rooted at outdir, backed by b.
func New(b imagebackend.Backend, outdir string, log hclog.Logger) *Extractor {
	return &Extractor{
		backend:   b,
		outdir:    outdir,
		log:       log.Named("extractor"),
		extracted: make(map[string]Artifact),
	}
}

// ExtractAll materializes every entry in entries, honoring overwrite.
// Per-entry failures are collected rather than aborting the batch (spec.md
// §7: "Extraction I/O failures ... mark the entry as failed and continue").
func (e *Extractor) ExtractAll(ctx context.Context, part imagebackend.Partition, entries []imagebackend.Entry, overwrite bool) ([]Artifact, []error) {
	var artifacts []Artifact
	var errs []error
	for _, entry := range entries {
		a, err := e.Extract(ctx, part, entry, overwrite)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if a != nil {
			artifacts = append(artifacts, *a)
		}
	}
	return artifacts, errs
}

// Extract materializes a single entry. A directory entry recurses into its
// descendants (spec.md §4.5); a file entry is copied byte-for-byte via the
// backend, reusing a prior extraction's Artifact if the same (partition,
// entry-id) pair was already extracted this run (spec.md §3 invariant).
func (e *Extractor) Extract(ctx context.Context, part imagebackend.Partition, entry imagebackend.Entry, overwrite bool) (*Artifact, error) {
	if entry.Kind == imagebackend.KindDirectory {
		return e.extractDirectory(ctx, part, entry, overwrite)
	}
	return e.extractFile(ctx, part, entry, overwrite)
}

func (e *Extractor) extractDirectory(ctx context.Context, part imagebackend.Partition, dir imagebackend.Entry, overwrite bool) (*Artifact, error) {
	hostPath := hostPathFor(e.outdir, dir.Path)
	if err := os.MkdirAll(hostPath, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPartialWrite, err)
	}

	all, err := e.backend.ListEntries(ctx, part, true)
	if err != nil {
		return nil, err
	}
	for _, child := range all {
		if !isDescendant(dir.Path, child.Path) {
			continue
		}
		if _, err := e.Extract(ctx, part, child, overwrite); err != nil {
			e.log.Warn("extraction failed for descendant", "entry", child.ID, "err", err)
		}
	}

	return &Artifact{
		HostPath:       hostPath,
		PartitionPath:  dir.Path,
		LeafName:       dir.Name,
		ParentHostPath: filepath.Dir(hostPath),
		Username:       deriveUsername(dir.Path),
	}, nil
}

func isDescendant(parent, candidate []string) bool {
	if len(candidate) <= len(parent) {
		return false
	}
	for i, seg := range parent {
		if candidate[i] != seg {
			return false
		}
	}
	return true
}

func (e *Extractor) extractFile(ctx context.Context, part imagebackend.Partition, entry imagebackend.Entry, overwrite bool) (*Artifact, error) {
	hostPath := hostPathFor(e.outdir, entry.Path)
	key := fmt.Sprintf("%d/%s", part.Slot, entry.ID)

	e.mu.Lock()
	if cached, ok := e.extracted[key]; ok {
		e.mu.Unlock()
		return &cached, nil
	}
	e.mu.Unlock()

	if !overwrite {
		if info, err := os.Stat(hostPath); err == nil && !info.IsDir() {
			a := e.finishArtifact(key, entry, hostPath, "")
			return &a, nil
		}
	}

	if err := e.checkFreeSpace(entry); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(hostPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPartialWrite, err)
	}

	if err := e.backend.Extract(ctx, part, entry, hostPath); err != nil {
		os.Remove(hostPath)
		return nil, fmt.Errorf("%w: %v", ErrPartialWrite, err)
	}

	hash, err := hashFile(hostPath)
	if err != nil {
		e.log.Debug("checksum failed", "path", hostPath, "err", err)
	} else {
		e.log.Debug("extracted", "path", hostPath, "hash", hash)
	}

	a := e.finishArtifact(key, entry, hostPath, hash)
	return &a, nil
}

func (e *Extractor) finishArtifact(key string, entry imagebackend.Entry, hostPath, hash string) Artifact {
	a := Artifact{
		HostPath:       hostPath,
		PartitionPath:  entry.Path,
		LeafName:       entry.Name,
		ParentHostPath: filepath.Dir(hostPath),
		Username:       deriveUsername(entry.Path),
		Hash:           hash,
	}
	e.mu.Lock()
	e.extracted[key] = a
	e.mu.Unlock()
	return a
}

// checkFreeSpace guards against materializing a file larger than the
// destination filesystem has room for (supplemental to spec.md §4.5;
// see SPEC_FULL.md §4). Entries below FreeSpaceThresholdBytes, or a
// threshold of zero, skip the check.
func (e *Extractor) checkFreeSpace(entry imagebackend.Entry) error {
	if e.FreeSpaceThresholdBytes <= 0 || entry.Size <= 0 || entry.Size < e.FreeSpaceThresholdBytes {
		return nil
	}
	usage, err := disk.Usage(e.outdir)
	if err != nil {
		return nil // preflight is best-effort; an unreadable mount point isn't itself an extraction failure
	}
	if usage.Free < uint64(entry.Size) {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrInsufficientSpace, entry.Size, usage.Free)
	}
	return nil
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := xxh3.Hash(data)
	return fmt.Sprintf("%016x", sum), nil
}
