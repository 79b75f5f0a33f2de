package imagebackend

import "errors"

var (
	// ErrBackendUnavailable names an unusable backend toolchain. The Adapter
	// does not return it: a missing or failing mmls surfaces as
	// ErrPartitionList.
	ErrBackendUnavailable = errors.New("image backend unavailable")

	// ErrPartitionList is returned when enumerating the volume system fails.
	ErrPartitionList = errors.New("partition listing failed")

	// ErrEntryList is returned when listing a directory's entries fails.
	ErrEntryList = errors.New("entry listing failed")

	// ErrExtract is returned when content extraction of a single entry fails.
	ErrExtract = errors.New("content extraction failed")

	// ErrUnknownVSType names a volume-system type outside SupportedVSTypes.
	// Nothing in this package returns it: -t and -i values are passed to the
	// toolchain unchecked.
	ErrUnknownVSType = errors.New("unknown volume-system type")
)
