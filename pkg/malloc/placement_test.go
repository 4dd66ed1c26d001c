package malloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNextHeapOffsetTailReportsFalse covers the single-block heap: the lone
// block is both head and tail, so nextHeapOffset must report false rather
// than walking past the committed buffer.
func TestNextHeapOffsetTailReportsFalse(t *testing.T) {
	a := newTestAllocator(t)
	require.NoError(t, a.preallocateHeap())

	_, ok := a.nextHeapOffset(0)
	assert.False(t, ok)
}

// TestNextHeapOffsetWalksAdjacentBlocks covers spec.md §3's heap-list
// adjacency invariant directly, independent of Malloc/Free.
func TestNextHeapOffsetWalksAdjacentBlocks(t *testing.T) {
	a := newTestAllocator(t)
	pA := a.Malloc(100)
	pB := a.Malloc(50)
	require.NotNil(t, pA)
	require.NotNil(t, pB)

	off, ok := a.nextHeapOffset(0)
	require.True(t, ok)
	assert.Equal(t, uint32(112), off, "A's 100-byte request aligns to 104 payload bytes plus an 8-byte header")
}

// TestFindBestFitPrefersSmallestSufficientOverFirstFit covers spec.md §4.3:
// best-fit, not first-fit — a later, tighter-fitting FREE block beats an
// earlier, larger one.
func TestFindBestFitPrefersSmallestSufficientOverFirstFit(t *testing.T) {
	a := newTestAllocator(t)
	pA := a.Malloc(200) // large FREE candidate once freed
	pX := a.Malloc(8)   // keeps A from coalescing into B once both are freed
	pB := a.Malloc(90)  // tighter-fitting FREE candidate once freed
	pC := a.Malloc(50)  // keeps B from coalescing into the tail
	require.NotNil(t, pX)
	require.NotNil(t, pC)

	a.Free(pA)
	a.Free(pB)

	got := a.Malloc(80)
	require.NotNil(t, got)
	assert.Equal(t, pB, got, "best-fit must choose B's tighter slot over A's looser one")
}

// TestFindBestFitReturnsLastEvenWithoutAMatch covers request_space's
// dependency on findBestFit always reporting the tail block, used to decide
// between extending it in place and appending a new one.
func TestFindBestFitReturnsLastEvenWithoutAMatch(t *testing.T) {
	a := newTestAllocator(t)
	require.NoError(t, a.preallocateHeap())

	_, found, last, hasLast := a.findBestFit(1 << 20)
	assert.False(t, found)
	assert.True(t, hasLast)
	assert.Equal(t, uint32(0), last)
}

// TestSplitBlockProducesFreeTailOfExpectedSize covers spec.md §4.3's
// split_block directly: the surplus becomes a new FREE block immediately
// after the shrunk original.
func TestSplitBlockProducesFreeTailOfExpectedSize(t *testing.T) {
	a := newTestAllocator(t)
	require.NoError(t, a.preallocateHeap())

	requiredTotal := total(104, a.cfg.Alignment)
	a.splitBlock(0, requiredTotal)

	buf := a.heap.Bytes()
	assert.Equal(t, uint32(104), readHeaderSize(buf, 0))

	newOff, ok := a.nextHeapOffset(0)
	require.True(t, ok)
	assert.Equal(t, requiredTotal, newOff)
	// surplus = oldPayloadSize - (requiredTotal - hdr), and oldPayloadSize
	// itself is (InitialHeap - hdr), so surplus reduces to InitialHeap -
	// requiredTotal exactly (see DESIGN.md on the split-formula's one-META
	// bookkeeping drift relative to the physically-committed byte count).
	assert.Equal(t, a.cfg.InitialHeap-requiredTotal, readHeaderSize(buf, newOff))
	assert.Equal(t, statusFree, readStatus(buf, newOff))
}

// TestHeapReachableRejectsForeignOffset covers spec.md §4.5's free-path
// defense: an offset not produced by walking from heap_start is unreachable.
func TestHeapReachableRejectsForeignOffset(t *testing.T) {
	a := newTestAllocator(t)
	p := a.Malloc(100)
	require.NotNil(t, p)

	assert.True(t, a.heapReachable(0))
	assert.False(t, a.heapReachable(99999))
}
