package malloc

// nextHeapOffset returns the header offset immediately following the block
// at off, derived from address arithmetic per the heap-list adjacency
// invariant (spec.md §3: address(Y) = address(X) + total(X.size)) rather
// than stored as a field — see SPEC_FULL.md's REDESIGN FLAGS #2. The
// second return is false when off is the tail block.
func (a *Allocator) nextHeapOffset(off uint32) (uint32, bool) {
	buf := a.heap.Bytes()
	size := readHeaderSize(buf, off)
	next := off + total(size, a.cfg.Alignment)
	if next >= uint32(len(buf)) {
		return 0, false
	}
	return next, true
}

// findBestFit realizes spec.md §4.3's find_best_fit: a single left-to-right
// walk of the heap list that opportunistically coalesces each block before
// inspecting it, tracks the smallest FREE block whose total size covers
// requiredTotal (earliest-of-ties, since a later same-size block never
// replaces an already-found candidate), and always reports the last block
// visited for request_space's benefit.
func (a *Allocator) findBestFit(requiredTotal uint32) (best uint32, found bool, last uint32, hasLast bool) {
	buf := a.heap.Bytes()
	off := uint32(0)
	for {
		a.coalesceAt(off)

		last, hasLast = off, true
		size := readHeaderSize(buf, off)
		if readStatus(buf, off) == statusFree && total(size, a.cfg.Alignment) >= requiredTotal {
			if !found || size < readHeaderSize(buf, best) {
				best, found = off, true
			}
		}

		next, ok := a.nextHeapOffset(off)
		if !ok {
			return
		}
		off = next
	}
}

// splitBlock realizes spec.md §4.3's split_block. Precondition (checked by
// the caller via the same strict-greater comparison): block.size + META >
// requiredTotal. The surplus becomes a new FREE tail block; the original
// block shrinks to exactly requiredTotal - META payload bytes. Splitting
// never touches the original block's status — callers set ALLOC/FREE
// themselves, before or after calling this.
func (a *Allocator) splitBlock(off, requiredTotal uint32) {
	buf := a.heap.Bytes()
	hdr := a.hdrSize()
	size := readHeaderSize(buf, off)

	surplus := size - (requiredTotal - hdr)
	newOff := off + requiredTotal

	writeHeaderSize(buf, newOff, surplus)
	writeStatus(buf, newOff, statusFree)
	writeHeaderSize(buf, off, requiredTotal-hdr)
}

// heapReachable walks the heap list from heap_start looking for target,
// per spec.md §4.5's free-path defense against double-free and foreign
// pointers: "first verify the block is reachable from heap_start."
func (a *Allocator) heapReachable(target uint32) bool {
	off := uint32(0)
	for {
		if off == target {
			return true
		}
		next, ok := a.nextHeapOffset(off)
		if !ok {
			return false
		}
		off = next
	}
}
