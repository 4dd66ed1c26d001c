package malloc

import (
	"os"
	"sync"
	"unsafe"

	"github.com/tudorionescu/gomalloc/pkg/malloc/osfacade"
)

// Allocator is a single-threaded, process-local allocator implementing
// spec.md's malloc/free/calloc/realloc family over a heap region (grown by
// break-pointer-style advancement, see osfacade) and an mmap'd-region list
// for large requests. Like the teacher's FastAllocator/BumpAllocator pair
// in hive/alloc, it is an explicit type rather than only package-level
// state, so a host — or a test — can run several independent allocators
// in one process; see NewAllocator.
//
// An Allocator is NOT safe for concurrent use: spec.md §5 rules out
// synchronization entirely, and no method here takes a lock.
type Allocator struct {
	cfg AllocatorConfig

	heap     *osfacade.Region // nil until the first heap-backed allocation
	mmapHead *mappedBlock

	// threshold is the region-selection boundary in effect right now. It
	// equals cfg.MMAPThreshold except for the duration of a Calloc call,
	// which overrides it to the page size (spec.md §4.5).
	threshold uint32
}

// NewAllocator constructs an Allocator from cfg. The heap itself is not
// created until the first heap-backed Malloc/Calloc/Realloc call
// (spec.md §3: "Heap is created lazily").
func NewAllocator(cfg AllocatorConfig) *Allocator {
	if cfg.Alignment == 0 {
		cfg = DefaultConfig
	}
	return &Allocator{cfg: cfg, threshold: cfg.MMAPThreshold}
}

func (a *Allocator) hdrSize() uint32 {
	return headerSize(a.cfg.Alignment)
}

// fatal routes OS resource exhaustion to cfg.OnFatal, defaulting to a
// logged message followed by process termination — spec.md §7's "callers
// must expect termination," kept swappable for tests the way
// hive/alloc/fastalloc.go's onGrow hook is.
func (a *Allocator) fatal(err error) {
	if a.cfg.OnFatal != nil {
		a.cfg.OnFatal(err)
		return
	}
	a.logger().Error("fatal allocator error", "err", err)
	os.Exit(1)
}

func payloadAddr(mem []byte, hdr uint32) unsafe.Pointer {
	return unsafe.Pointer(&mem[hdr])
}

func copyBytes(dst, src unsafe.Pointer, n int) {
	if n <= 0 {
		return
	}
	d := unsafe.Slice((*byte)(dst), n)
	s := unsafe.Slice((*byte)(src), n)
	copy(d, s)
}

func zeroFill(ptr unsafe.Pointer, n int) {
	if n <= 0 {
		return
	}
	clear(unsafe.Slice((*byte)(ptr), n))
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// heapPtr converts a heap offset into the real, stable payload address a
// caller can dereference (spec.md §4.1: payload_of(block) = block + META,
// realized here as base + payload-offset rather than raw pointer
// arithmetic — SPEC_FULL.md REDESIGN FLAGS #1).
func (a *Allocator) heapPtr(off uint32) unsafe.Pointer {
	return unsafe.Pointer(uintptr(a.heap.Base()) + uintptr(off))
}

// heapOffset converts a real address back into a heap offset, reporting ok
// = false if the address does not fall within the heap's committed range
// at all (it may still belong to the mapped list, or be wholly foreign).
func (a *Allocator) heapOffset(ptr unsafe.Pointer) (uint32, bool) {
	if a.heap == nil || ptr == nil {
		return 0, false
	}
	base := uintptr(a.heap.Base())
	p := uintptr(ptr)
	committed := uintptr(len(a.heap.Bytes()))
	if p < base || p >= base+committed {
		return 0, false
	}
	return uint32(p - base), true
}

// Malloc realizes spec.md §4.5: size <= 0 returns nil; otherwise size is
// aligned, and the resulting total block size is classified against the
// current threshold to choose the heap or mapped path.
func (a *Allocator) Malloc(size int) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	n := align(uint32(size), a.cfg.Alignment)
	bs := total(n, a.cfg.Alignment)
	if bs < a.threshold {
		ptr, err := a.mallocSbrk(n)
		if err != nil {
			a.fatal(err)
			return nil
		}
		return ptr
	}
	blk, err := a.mmapAlloc(n)
	if err != nil {
		a.fatal(err)
		return nil
	}
	return payloadAddr(blk.mem, a.hdrSize())
}

// mallocSbrk realizes spec.md §4.3's malloc_sbrk(size): preallocate the
// heap if needed, best-fit search, split on an over-sized hit, or extend
// the heap on a miss.
func (a *Allocator) mallocSbrk(size uint32) (unsafe.Pointer, error) {
	if a.heap == nil {
		if err := a.preallocateHeap(); err != nil {
			return nil, err
		}
	}

	requiredTotal := total(size, a.cfg.Alignment)
	best, found, last, hasLast := a.findBestFit(requiredTotal)
	if found {
		buf := a.heap.Bytes()
		writeStatus(buf, best, statusAlloc)
		if readHeaderSize(buf, best)+a.hdrSize() > requiredTotal {
			a.splitBlock(best, requiredTotal)
		}
		return a.heapPtr(payloadOffset(best, a.cfg.Alignment)), nil
	}

	newOff, err := a.requestSpace(last, hasLast, requiredTotal)
	if err != nil {
		return nil, err
	}
	writeStatus(a.heap.Bytes(), newOff, statusAlloc)
	return a.heapPtr(payloadOffset(newOff, a.cfg.Alignment)), nil
}

// Free realizes spec.md §4.5. A nil pointer is a no-op. Heap pointers are
// verified reachable from heap_start before being marked FREE (defensive
// against double-free and foreign pointers); mapped pointers are removed
// by identity and unmapped, with no reachability check — spec.md §9's
// documented asymmetry.
func (a *Allocator) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	if off, ok := a.heapOffset(ptr); ok {
		hdrOff := blockOffset(off, a.cfg.Alignment)
		a.heapFree(hdrOff)
		return
	}
	a.mmapFree(uintptr(ptr))
}

func (a *Allocator) heapFree(hdrOff uint32) {
	if !a.heapReachable(hdrOff) {
		return
	}
	writeStatus(a.heap.Bytes(), hdrOff, statusFree)
	a.coalesceAt(hdrOff)
}

// Calloc realizes spec.md §4.5: the threshold is overridden to the page
// size for the duration of the call (favoring the mapped path, which
// zero-fills fresh mappings, for anything a page or larger), restored on
// every exit path via defer, then the payload is explicitly zeroed
// regardless — "implementations must still explicitly zero the payload."
// nmemb*size is computed without overflow checking, preserving the
// source's unchecked semantics (spec.md §9, Open Question).
func (a *Allocator) Calloc(nmemb, size int) unsafe.Pointer {
	totalBytes := nmemb * size

	prevThreshold := a.threshold
	a.threshold = uint32(osfacade.PageSize())
	defer func() { a.threshold = prevThreshold }()

	ptr := a.Malloc(totalBytes)
	if ptr == nil {
		return nil
	}
	zeroFill(ptr, totalBytes)
	return ptr
}

// Realloc realizes spec.md §4.5-4.6.
func (a *Allocator) Realloc(ptr unsafe.Pointer, size int) unsafe.Pointer {
	if ptr == nil {
		return a.Malloc(size)
	}
	if size == 0 {
		a.Free(ptr)
		return nil
	}
	n := align(uint32(size), a.cfg.Alignment)

	if off, ok := a.heapOffset(ptr); ok {
		hdrOff := blockOffset(off, a.cfg.Alignment)
		if !a.heapReachable(hdrOff) {
			return nil
		}
		if readStatus(a.heap.Bytes(), hdrOff) == statusFree {
			return nil
		}
		return a.heapRealloc(hdrOff, n)
	}

	blk := a.findMapped(uintptr(ptr))
	if blk == nil {
		return nil
	}
	return a.mappedRealloc(blk, ptr, n)
}

// mappedRealloc realizes spec.md §4.5's mapped-realloc: allocate fresh,
// copy min(old_size, size) bytes, unmap the old.
func (a *Allocator) mappedRealloc(blk *mappedBlock, oldPtr unsafe.Pointer, n uint32) unsafe.Pointer {
	oldSize := readHeaderSize(blk.mem, 0)

	newPtr := a.Malloc(int(n))
	if newPtr == nil {
		return nil
	}
	copyBytes(newPtr, oldPtr, int(minU32(oldSize, n)))

	a.unlinkMapped(blk)
	if err := osfacade.Munmap(blk.mem); err != nil {
		a.fatal(err)
	}
	return newPtr
}

// heapRealloc realizes spec.md §4.6, the heap-realloc central algorithm.
// b is the header offset of the block being resized; n is the aligned
// requested payload size.
func (a *Allocator) heapRealloc(b uint32, n uint32) unsafe.Pointer {
	buf := a.heap.Bytes()
	oldSize := readHeaderSize(buf, b)
	bs := total(n, a.cfg.Alignment)

	// Step 2: promotion to mapped region.
	if bs >= a.threshold {
		blk, err := a.mmapAlloc(n)
		if err != nil {
			a.fatal(err)
			return nil
		}
		newPtr := payloadAddr(blk.mem, a.hdrSize())
		copyBytes(newPtr, a.heapPtr(payloadOffset(b, a.cfg.Alignment)), int(minU32(oldSize, n)))
		a.heapFree(b)
		return newPtr
	}

	// Step 3: in-place grow attempt. B is marked FREE so coalesceStep's
	// "FREE and non-null successor" rule can pull its neighbors in; it is
	// restored to ALLOC unconditionally before anything else reads it.
	writeStatus(buf, b, statusFree)
	for total(readHeaderSize(buf, b), a.cfg.Alignment) < bs && a.isCoalescable(b) {
		a.coalesceStep(b)
	}
	writeStatus(buf, b, statusAlloc)

	if total(readHeaderSize(buf, b), a.cfg.Alignment) >= bs {
		if readHeaderSize(buf, b)+a.hdrSize() > bs {
			a.splitBlock(b, bs)
		}
		return a.heapPtr(payloadOffset(b, a.cfg.Alignment))
	}

	if _, hasNext := a.nextHeapOffset(b); hasNext {
		// Step 4: not the last block and the grow attempt failed. Release
		// any over-coalesced suffix back to a FREE tail before relocating,
		// so those bytes aren't silently leaked as part of the freed block
		// below.
		if readHeaderSize(buf, b) != oldSize {
			a.splitBlock(b, total(oldSize, a.cfg.Alignment))
		}
		curSize := readHeaderSize(buf, b)

		newPtr, err := a.mallocSbrk(n)
		if err != nil {
			a.fatal(err)
			return nil
		}
		copyBytes(newPtr, a.heapPtr(payloadOffset(b, a.cfg.Alignment)), int(minU32(curSize, n)))
		a.heapFree(b)
		return newPtr
	}

	// Step 5: last block, grow failed. Search for an interior hole before
	// paying for heap extension; if request_space ends up extending B
	// itself (it is the FREE tail), the caller's original pointer is still
	// valid and must be returned unchanged.
	writeStatus(buf, b, statusFree)
	best, found, last, hasLast := a.findBestFit(bs)
	if !found {
		newOff, err := a.requestSpace(last, hasLast, bs)
		if err != nil {
			a.fatal(err)
			return nil
		}
		writeStatus(a.heap.Bytes(), newOff, statusAlloc)
		return a.heapPtr(payloadOffset(newOff, a.cfg.Alignment))
	}

	buf = a.heap.Bytes()
	writeStatus(buf, best, statusAlloc)
	copyBytes(
		a.heapPtr(payloadOffset(best, a.cfg.Alignment)),
		a.heapPtr(payloadOffset(b, a.cfg.Alignment)),
		int(oldSize),
	)
	a.heapFree(b)
	return a.heapPtr(payloadOffset(best, a.cfg.Alignment))
}

// Default process-wide allocator, bound to by the package-level
// Malloc/Free/Calloc/Realloc functions for callers that want the single
// global allocator osmem.c-style code expects (SPEC_FULL.md §7).
var (
	defaultOnce  sync.Once
	defaultAlloc *Allocator
)

func defaultAllocator() *Allocator {
	defaultOnce.Do(func() {
		defaultAlloc = NewAllocator(DefaultConfig)
	})
	return defaultAlloc
}

// Malloc allocates size bytes using the process-wide default allocator.
func Malloc(size int) unsafe.Pointer { return defaultAllocator().Malloc(size) }

// Free releases ptr using the process-wide default allocator.
func Free(ptr unsafe.Pointer) { defaultAllocator().Free(ptr) }

// Calloc allocates and zero-fills nmemb*size bytes using the process-wide
// default allocator.
func Calloc(nmemb, size int) unsafe.Pointer { return defaultAllocator().Calloc(nmemb, size) }

// Realloc resizes ptr to size bytes using the process-wide default
// allocator.
func Realloc(ptr unsafe.Pointer, size int) unsafe.Pointer {
	return defaultAllocator().Realloc(ptr, size)
}
