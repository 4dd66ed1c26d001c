package malloc

import "log/slog"

// AllocatorConfig holds the tunables spec.md fixes as constants, exposed
// here so tests and embedders can build isolated allocators (the way
// hive/alloc.NewFast takes a *SizeClassConfig rather than hard-coding its
// size-class table).
type AllocatorConfig struct {
	// Alignment all payload sizes and header placements round up to.
	Alignment uint32

	// InitialHeap is the size, in bytes, of the first heap preallocation.
	InitialHeap uint32

	// MMAPThreshold is the total-size boundary at or above which a request
	// is served by an individually mapped region instead of the heap.
	MMAPThreshold uint32

	// ReserveBytes is the size of the virtual address range reserved
	// up front for heap growth (see osfacade.Reserve). Reservation is
	// address-space only; physical pages are committed lazily as the heap
	// grows, so a generous default costs nothing until used.
	ReserveBytes uint64

	// OnFatal is invoked when the OS facade reports resource exhaustion
	// (break-advance or mapping failure). Per spec, this is fatal and never
	// surfaces as a nil return from Malloc/Calloc/Realloc. Defaults to
	// logging at slog.LevelError followed by os.Exit(1); tests may override
	// it to observe the failure instead of terminating the process, the way
	// hive/alloc.FastAllocator.onGrow is swapped out for test instrumentation.
	OnFatal func(error)

	// Logger receives allocator-lifecycle debug events (heap preallocation,
	// heap growth, mapped-block creation). Defaults to a package-level discarding
	// logger if nil; see SetLogger to change the package default instead.
	Logger *slog.Logger
}

// DefaultConfig mirrors spec.md's fixed constants: 8-byte alignment, a
// 128KiB initial heap, and a 128KiB mmap threshold.
var DefaultConfig = AllocatorConfig{
	Alignment:     8,
	InitialHeap:   131072,
	MMAPThreshold: 131072,
	ReserveBytes:  4 << 30, // 4GiB of reserved address space
	OnFatal:       nil,
}
