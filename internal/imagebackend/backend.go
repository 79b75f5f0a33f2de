package imagebackend

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// SupportedVSTypes are the volume-system type values accepted by -t,
// excluding the "list" sentinel handled by the CLI itself.
var SupportedVSTypes = []string{"bsd", "mac", "gpt", "dos", "sun"}

// SupportedImgTypes are the image-format values accepted by -i, excluding
// the "list" sentinel handled by the CLI itself.
var SupportedImgTypes = []string{"afm", "vhd", "vmdk", "aff", "afflib", "ewf", "afd", "raw"}

// Options configures the backend adapter: which toolchain binaries to
// invoke and how to interpret the raw image (spec.md §6 flags -T, -t, -i,
// -b, -o).
type Options struct {
	BinDir     string // directory containing mmls/fls/icat, empty = use $PATH
	VSType     string
	ImgType    string
	SectorSize int
	Offset     int64
}

// Backend is a thin facade over the partition lister / directory lister /
// content extractor (spec.md §4.3). A concrete Adapter shells out to a
// sleuthkit-compatible toolchain; tests substitute a fake.
type Backend interface {
	ListPartitions(ctx context.Context, images []string) ([]Partition, error)
	ListEntries(ctx context.Context, part Partition, recursive bool) ([]Entry, error)
	Extract(ctx context.Context, part Partition, entry Entry, destHostPath string) error
}

// Adapter implements Backend by shelling out to mmls (partition listing),
// fls (directory listing), and icat (content extraction). It memoizes
// ListEntries per partition for the run, as required by spec.md §4.3.
type Adapter struct {
	opts   Options
	log    hclog.Logger
	mu     sync.Mutex
	cached map[int][]Entry // keyed by Partition.Slot

	// images is the image path list passed to the most recent
	// ListPartitions call. fls and icat address the same image(s) mmls
	// was run against, so ListEntries/Extract reuse it rather than
	// requiring every caller to thread it through the Backend interface.
	images []string
}

// NewAdapter returns a Backend bound to the given toolchain options.
func NewAdapter(opts Options, log hclog.Logger) *Adapter {
	return &Adapter{opts: opts, log: log.Named("imagebackend"), cached: make(map[int][]Entry)}
}

func (a *Adapter) bin(name string) string {
	if a.opts.BinDir == "" {
		return name
	}
	return filepath.Join(a.opts.BinDir, name)
}

// mmlsLineRe matches an mmls table row, e.g.:
//
//	002:  002   2048   206847   204800   NTFS (0x07)
var mmlsLineRe = regexp.MustCompile(`^\d+:\s+\S+\s+(\d+)\s+\d+\s+(\d+)\s+(\S.*?)(?:\s+\(0x[0-9a-fA-F]+\))?\s*$`)

// ListPartitions runs mmls against the (possibly split) image and parses
// its volume-system table into Partitions. Only rows whose description
// looks like a filesystem (not "Unallocated", "Primary Table", etc.) are
// returned.
func (a *Adapter) ListPartitions(ctx context.Context, images []string) ([]Partition, error) {
	a.mu.Lock()
	a.images = images
	a.mu.Unlock()

	args := a.mmlsArgs(images)
	out, err := a.run(ctx, a.bin("mmls"), args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPartitionList, err)
	}

	var parts []Partition
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		m := mmlsLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		desc := strings.TrimSpace(m[3])
		if strings.Contains(strings.ToLower(desc), "unallocated") ||
			strings.Contains(strings.ToLower(desc), "table") ||
			strings.Contains(strings.ToLower(desc), "meta") {
			continue
		}
		offset, _ := strconv.ParseInt(m[1], 10, 64)
		size, _ := strconv.ParseInt(m[2], 10, 64)
		slot := len(parts)
		parts = append(parts, Partition{
			Slot:   slot,
			FSType: normalizeFSType(desc),
			Offset: offset,
			Size:   size,
			handle: fmt.Sprintf("%d", offset),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPartitionList, err)
	}
	return parts, nil
}

func normalizeFSType(desc string) string {
	upper := strings.ToUpper(desc)
	switch {
	case strings.Contains(upper, "NTFS"):
		return "NTFS"
	case strings.Contains(upper, "FAT32"):
		return "FAT32"
	case strings.Contains(upper, "FAT16"):
		return "FAT16"
	case strings.Contains(upper, "EXT"):
		return "EXT"
	case strings.Contains(upper, "HFS"):
		return "HFS"
	default:
		return upper
	}
}

func (a *Adapter) mmlsArgs(images []string) []string {
	var args []string
	if a.opts.VSType != "" {
		args = append(args, "-t", a.opts.VSType)
	}
	if a.opts.ImgType != "" {
		args = append(args, "-i", a.opts.ImgType)
	}
	if a.opts.SectorSize > 0 {
		args = append(args, "-b", strconv.Itoa(a.opts.SectorSize))
	}
	args = append(args, images...)
	return args
}

// flsLineRe matches a single `fls -p` output row; group 1 is the type glyph
// ('d' for directory, 'r' for regular file), group 2 the inode id, and
// group 3 the slash-joined full path (fls -p prints the path from the
// partition root rather than a bare leaf name).
var flsLineRe = regexp.MustCompile(`^([dr])/[dr-]\s+(\d+(?:-\d+-\d+)?):\s+(.+)$`)

// ListEntries lists every entry in the partition the first time it is
// called for a given partition, caching the result for the remainder of
// the run (spec.md §4.3 memoization invariant).
func (a *Adapter) ListEntries(ctx context.Context, part Partition, recursive bool) ([]Entry, error) {
	a.mu.Lock()
	if cached, ok := a.cached[part.Slot]; ok {
		a.mu.Unlock()
		return cached, nil
	}
	a.mu.Unlock()

	args := a.flsArgs(part, recursive)
	out, err := a.run(ctx, a.bin("fls"), args)
	if err != nil {
		return nil, fmt.Errorf("%w: (partition %d): %v", ErrEntryList, part.Slot, err)
	}

	var entries []Entry
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		m := flsLineRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		kind := KindFile
		if m[1] == "d" {
			kind = KindDirectory
		}
		full := m[3]
		segs := strings.Split(full, "/")
		name := segs[len(segs)-1]
		if name == "." || name == ".." {
			continue
		}
		var parent string
		if len(segs) > 1 {
			parent = segs[len(segs)-2]
		}
		entries = append(entries, Entry{
			ID:     m[2],
			Kind:   kind,
			Name:   name,
			Parent: parent,
			Path:   segs,
			Size:   -1,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: (partition %d): %v", ErrEntryList, part.Slot, err)
	}

	a.mu.Lock()
	a.cached[part.Slot] = entries
	a.mu.Unlock()
	a.log.Debug("listed entries", "partition", part.Slot, "count", len(entries))
	return entries, nil
}

func (a *Adapter) flsArgs(part Partition, recursive bool) []string {
	args := []string{"-o", part.Handle(), "-p"}
	if recursive {
		args = append(args, "-r")
	}
	if a.opts.ImgType != "" {
		args = append(args, "-i", a.opts.ImgType)
	}
	args = append(args, a.images...)
	return args
}

func (a *Adapter) icatArgs(part Partition, entry Entry) []string {
	args := []string{"-o", part.Handle()}
	if a.opts.ImgType != "" {
		args = append(args, "-i", a.opts.ImgType)
	}
	args = append(args, a.images...)
	args = append(args, entry.ID)
	return args
}

// Extract runs icat to pull entry's content into destHostPath.
func (a *Adapter) Extract(ctx context.Context, part Partition, entry Entry, destHostPath string) error {
	args := a.icatArgs(part, entry)

	cmd := exec.CommandContext(ctx, a.bin("icat"), args...)
	f, err := createFile(destHostPath)
	if err != nil {
		return fmt.Errorf("%w: (partition %d, entry %s): %v", ErrExtract, part.Slot, entry.ID, err)
	}
	defer f.Close()
	cmd.Stdout = f

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: (partition %d, entry %s): %v", ErrExtract, part.Slot, entry.ID, err)
	}
	return nil
}

// run executes name with args and returns combined stdout; stderr is
// attached to the returned error for diagnostics.
func (a *Adapter) run(ctx context.Context, name string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout strings.Builder
	var stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	a.log.Trace("exec", "cmd", name, "args", args)
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%v: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", err
	}
	return stdout.String(), nil
}
