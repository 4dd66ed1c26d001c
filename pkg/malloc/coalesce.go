package malloc

// isCoalescable reports whether the block at off is FREE and has a FREE,
// non-null successor, per spec.md §4.4's definition.
func (a *Allocator) isCoalescable(off uint32) bool {
	buf := a.heap.Bytes()
	if readStatus(buf, off) != statusFree {
		return false
	}
	next, ok := a.nextHeapOffset(off)
	if !ok {
		return false
	}
	return readStatus(buf, next) == statusFree
}

// coalesceStep merges the block at off with its immediate successor,
// assuming isCoalescable(off) holds. The successor's header is simply
// absorbed into off's size field; because next is derived rather than
// stored (SPEC_FULL.md REDESIGN FLAGS #2), there is no link to repair.
func (a *Allocator) coalesceStep(off uint32) {
	buf := a.heap.Bytes()
	next, _ := a.nextHeapOffset(off)
	size := readHeaderSize(buf, off)
	nextSize := readHeaderSize(buf, next)
	writeHeaderSize(buf, off, size+total(nextSize, a.cfg.Alignment))
}

// coalesceAt repeatedly merges the block at off forward with its
// successor(s) until it is no longer coalescable (spec.md §4.4: "eager
// forward merging"). It never merges backward; backward merging happens
// transitively because the heap list is always walked from the head
// (spec.md §9).
func (a *Allocator) coalesceAt(off uint32) {
	for a.isCoalescable(off) {
		a.coalesceStep(off)
	}
}
