package malloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPreallocateHeapIsIdempotent covers spec.md §3's "single preallocation"
// guarantee: calling it twice must not reset or re-reserve the heap.
func TestPreallocateHeapIsIdempotent(t *testing.T) {
	a := newTestAllocator(t)
	require.NoError(t, a.preallocateHeap())
	first := a.heap

	require.NoError(t, a.preallocateHeap())
	assert.Same(t, first, a.heap)
}

// TestPreallocateHeapWritesOneFreeBlock covers spec.md §8 scenario 1's
// precondition directly.
func TestPreallocateHeapWritesOneFreeBlock(t *testing.T) {
	a := newTestAllocator(t)
	require.NoError(t, a.preallocateHeap())

	buf := a.heap.Bytes()
	assert.Equal(t, a.cfg.InitialHeap-a.hdrSize(), readHeaderSize(buf, 0))
	assert.Equal(t, statusFree, readStatus(buf, 0))
	_, ok := a.nextHeapOffset(0)
	assert.False(t, ok)
}

// TestRequestSpaceExtendsFreeTailInPlace covers spec.md §4.2's first case:
// when last is FREE, request_space grows it rather than appending a new
// header next to it.
func TestRequestSpaceExtendsFreeTailInPlace(t *testing.T) {
	a := newSmallTestAllocator(t, 64, 10_000_000)
	require.NoError(t, a.preallocateHeap())

	newOff, err := a.requestSpace(0, true, 200)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), newOff, "extending the sole FREE block keeps its offset")
	assert.Equal(t, uint32(200-a.hdrSize()), readHeaderSize(a.heap.Bytes(), 0))
}

// TestRequestSpaceAppendsWhenTailIsAlloc covers spec.md §4.2's second case:
// when last is ALLOC, request_space appends a brand new FREE block after it.
func TestRequestSpaceAppendsWhenTailIsAlloc(t *testing.T) {
	a := newSmallTestAllocator(t, 64, 10_000_000)
	require.NoError(t, a.preallocateHeap())
	writeStatus(a.heap.Bytes(), 0, statusAlloc)

	newOff, err := a.requestSpace(0, true, 128)
	require.NoError(t, err)
	assert.Equal(t, uint32(64), newOff)
	assert.Equal(t, statusFree, readStatus(a.heap.Bytes(), newOff))
	assert.Equal(t, uint32(128-a.hdrSize()), readHeaderSize(a.heap.Bytes(), newOff))
}

// TestMmapAllocInitializesMappedHeader covers spec.md §4.2's mapped
// allocation path directly.
func TestMmapAllocInitializesMappedHeader(t *testing.T) {
	a := newTestAllocator(t)
	blk, err := a.mmapAlloc(4096)
	require.NoError(t, err)
	require.NotNil(t, blk)

	assert.Equal(t, statusMapped, readStatus(blk.mem, 0))
	assert.Equal(t, a.mmapHead, blk, "newest mapped block becomes the list head")
}

// TestUnlinkMappedHandlesHeadMiddleAndTail covers all three unlink positions
// spec.md §4.2 calls out ("unlink by identity").
func TestUnlinkMappedHandlesHeadMiddleAndTail(t *testing.T) {
	a := newTestAllocator(t)
	b1, err := a.mmapAlloc(4096)
	require.NoError(t, err)
	b2, err := a.mmapAlloc(4096)
	require.NoError(t, err)
	b3, err := a.mmapAlloc(4096)
	require.NoError(t, err)

	// list is now b3 -> b2 -> b1 (LIFO)
	a.unlinkMapped(b2)
	assert.Equal(t, b3, a.mmapHead)
	assert.Equal(t, b1, b3.next)

	a.unlinkMapped(b3)
	assert.Equal(t, b1, a.mmapHead)

	a.unlinkMapped(b1)
	assert.Nil(t, a.mmapHead)
}

// TestFindMappedDoesNotRemove covers findMapped's read-only contract, used
// by Realloc's mapped-block path before it copies and unmaps the block.
func TestFindMappedDoesNotRemove(t *testing.T) {
	a := newTestAllocator(t)
	blk, err := a.mmapAlloc(4096)
	require.NoError(t, err)

	ptr := payloadAddr(blk.mem, a.hdrSize())
	got := a.findMapped(uintptr(ptr))
	assert.Same(t, blk, got)
	assert.Same(t, blk, a.mmapHead, "lookup alone must not unlink")
}

// TestMmapFreeUnmapsAndUnlinks covers spec.md §4.5's mapped-free path.
func TestMmapFreeUnmapsAndUnlinks(t *testing.T) {
	a := newTestAllocator(t)
	blk, err := a.mmapAlloc(4096)
	require.NoError(t, err)
	ptr := payloadAddr(blk.mem, a.hdrSize())

	ok := a.mmapFree(uintptr(ptr))
	assert.True(t, ok)
	assert.Nil(t, a.mmapHead)
}

// TestMmapFreeForeignPointerIsNoop covers the documented asymmetry with
// heap-free: an unrecognized pointer is silently ignored.
func TestMmapFreeForeignPointerIsNoop(t *testing.T) {
	a := newTestAllocator(t)
	_, err := a.mmapAlloc(4096)
	require.NoError(t, err)

	ok := a.mmapFree(uintptr(0xdeadbeef))
	assert.False(t, ok)
	assert.NotNil(t, a.mmapHead, "the real mapped block must be untouched")
}
