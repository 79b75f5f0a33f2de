package imagebackend

// Kind distinguishes a file entry from a directory entry.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Partition is one volume within the image's volume system, identified by
// its slot index. Only filesystems in the configured type set are eligible
// for "all partitions" mode (spec.md §3).
type Partition struct {
	Slot     int
	FSType   string // e.g. "NTFS", "FAT32"
	Offset   int64  // sector offset into the image
	Size     int64  // size in sectors
	handle   string // backend-internal handle: the decimal sector offset passed to fls/icat -o
}

// Handle returns the backend-internal addressing string for this partition,
// used to build fls/icat invocations.
func (p Partition) Handle() string { return p.handle }

// Entry is a single name within a partition's filesystem tree, as surfaced
// by the Image Backend (spec.md §3). Entries form a tree rooted at the
// partition root; an Entry's lifetime coincides with its partition handle.
type Entry struct {
	ID       string // inode-equivalent identifier, backend-assigned
	Kind     Kind
	Parent   string // leaf name of the parent directory, empty for entries at the partition root
	Name     string // leaf name
	Size     int64  // meaningful only for KindFile; -1 if unknown
	Path     []string
}
