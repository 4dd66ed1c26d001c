package malloc

import (
	"testing"
	"unsafe"
)

// newTestAllocator builds an isolated Allocator with spec.md's default
// constants (8-byte alignment, 128KiB initial heap, 128KiB mmap threshold),
// matching hive/alloc's convention of building a fresh allocator per test
// rather than sharing or mocking one.
func newTestAllocator(t *testing.T) *Allocator {
	t.Helper()
	return NewAllocator(AllocatorConfig{
		Alignment:     8,
		InitialHeap:   131072,
		MMAPThreshold: 131072,
		ReserveBytes:  64 << 20,
		OnFatal: func(err error) {
			t.Fatalf("allocator reported fatal error: %v", err)
		},
	})
}

// newSmallTestAllocator builds an allocator with a tiny initial heap, for
// tests that want to exercise heap extension without allocating hundreds
// of kilobytes of scratch data.
func newSmallTestAllocator(t *testing.T, initialHeap, threshold uint32) *Allocator {
	t.Helper()
	return NewAllocator(AllocatorConfig{
		Alignment:     8,
		InitialHeap:   initialHeap,
		MMAPThreshold: threshold,
		ReserveBytes:  64 << 20,
		OnFatal: func(err error) {
			t.Fatalf("allocator reported fatal error: %v", err)
		},
	})
}

// headerOf returns the header offset and raw (size, status) of the block
// backing a payload pointer returned from the heap path, for assertions
// that need to inspect allocator-internal state directly.
func (a *Allocator) headerOf(t *testing.T, ptr unsafe.Pointer) (off uint32, size uint32, st status) {
	t.Helper()
	payloadOff, ok := a.heapOffset(ptr)
	if !ok {
		t.Fatalf("pointer %v is not a heap pointer", ptr)
	}
	off = blockOffset(payloadOff, a.cfg.Alignment)
	buf := a.heap.Bytes()
	return off, readHeaderSize(buf, off), readStatus(buf, off)
}

func writeBytes(ptr unsafe.Pointer, data []byte) {
	dst := unsafe.Slice((*byte)(ptr), len(data))
	copy(dst, data)
}

func readBytes(ptr unsafe.Pointer, n int) []byte {
	src := unsafe.Slice((*byte)(ptr), n)
	out := make([]byte, n)
	copy(out, src)
	return out
}
