package malloc

import (
	"fmt"

	"github.com/tudorionescu/gomalloc/pkg/malloc/osfacade"
)

// mappedBlock is one node of the mapped list: a standalone mmap'd region
// with its own header at offset 0. Unlike heap blocks, mapped blocks are
// unrelated in address space, so next is a real stored link rather than
// something derivable from address arithmetic — mirroring the teacher's
// own largeBlock list in hive/alloc/fastalloc.go (off, size int32; next
// *largeBlock), generalized from "large cells inside one hive file" to
// "independently mmap'd regions."
type mappedBlock struct {
	mem  []byte
	next *mappedBlock
}

// preallocateHeap installs spec.md's "single preallocation of INITIAL_HEAP,"
// a single Sbrk reserving the initial heap and one FREE block spanning it.
// Grounded in hive/alloc/bump.go's NewBump, which likewise computes its
// first usable region from one up-front read rather than scanning cells.
func (a *Allocator) preallocateHeap() error {
	if a.heap != nil {
		return nil
	}
	region, err := osfacade.Reserve(int(a.cfg.ReserveBytes))
	if err != nil {
		return fmt.Errorf("%w: preallocate heap: %v", ErrOSFailure, err)
	}
	if _, err := region.Sbrk(int(a.cfg.InitialHeap)); err != nil {
		return fmt.Errorf("%w: preallocate heap: %v", ErrOSFailure, err)
	}
	a.heap = region
	hdr := a.hdrSize()
	buf := a.heap.Bytes()
	writeHeaderSize(buf, 0, a.cfg.InitialHeap-hdr)
	writeStatus(buf, 0, statusFree)
	a.logger().Debug("heap preallocated", "bytes", a.cfg.InitialHeap)
	return nil
}

// requestSpace realizes spec.md §4.2's request_space(last, block_size): it
// advances the break by exactly as much as is needed to make blockSize
// bytes available at the tail, reusing the tail block in place when it is
// already FREE rather than creating a new header next to it.
func (a *Allocator) requestSpace(last uint32, hasLast bool, blockSize uint32) (uint32, error) {
	hdr := a.hdrSize()

	if hasLast && readStatus(a.heap.Bytes(), last) == statusFree {
		curTotal := total(readHeaderSize(a.heap.Bytes(), last), a.cfg.Alignment)
		delta := blockSize - curTotal
		if _, err := a.heap.Sbrk(int(delta)); err != nil {
			return 0, fmt.Errorf("%w: extend heap: %v", ErrOSFailure, err)
		}
		buf := a.heap.Bytes()
		writeHeaderSize(buf, last, readHeaderSize(buf, last)+delta)
		a.logger().Debug("heap extended", "mode", "tail-free-grow", "bytes", delta)
		return last, nil
	}

	before, err := a.heap.Sbrk(int(blockSize))
	if err != nil {
		return 0, fmt.Errorf("%w: extend heap: %v", ErrOSFailure, err)
	}
	newOff := uint32(before)
	buf := a.heap.Bytes()
	writeHeaderSize(buf, newOff, blockSize-hdr)
	writeStatus(buf, newOff, statusFree)
	a.logger().Debug("heap extended", "mode", "new-tail-block", "bytes", blockSize)
	return newOff, nil
}

// mmapAlloc realizes spec.md §4.2's mapped allocation: map total(size)
// bytes, initialize a single MAPPED block spanning it, and install it at
// the mapped list head.
func (a *Allocator) mmapAlloc(size uint32) (*mappedBlock, error) {
	tot := total(size, a.cfg.Alignment)
	mem, err := osfacade.Mmap(int(tot))
	if err != nil {
		return nil, fmt.Errorf("%w: mmap region: %v", ErrOSFailure, err)
	}
	writeHeaderSize(mem, 0, tot-a.hdrSize())
	writeStatus(mem, 0, statusMapped)
	blk := &mappedBlock{mem: mem, next: a.mmapHead}
	a.mmapHead = blk
	a.logger().Debug("mapped block created", "size", size)
	return blk, nil
}

// unlinkMapped removes blk from the mapped list by identity, as spec.md
// §4.2 requires ("unlink from the mapped list by identity").
func (a *Allocator) unlinkMapped(blk *mappedBlock) {
	if a.mmapHead == blk {
		a.mmapHead = blk.next
		return
	}
	for b := a.mmapHead; b != nil; b = b.next {
		if b.next == blk {
			b.next = blk.next
			return
		}
	}
}

// mmapFree locates the mapped block whose payload address equals ptr (the
// "pointer equality over the list" spec.md §4.5 specifies), unlinks it, and
// unmaps its backing memory. A ptr matching no mapped block is a silent
// no-op, preserving the asymmetry spec.md §9 calls out relative to
// heap-free's reachability check.
func (a *Allocator) mmapFree(ptr uintptr) bool {
	hdr := a.hdrSize()
	for b := a.mmapHead; b != nil; b = b.next {
		if uintptr(payloadAddr(b.mem, hdr)) == ptr {
			a.unlinkMapped(b)
			if err := osfacade.Munmap(b.mem); err != nil {
				a.fatal(err)
			}
			return true
		}
	}
	return false
}

// findMapped locates (without removing) the mapped block whose payload
// address equals ptr, for Realloc's mapped-block path.
func (a *Allocator) findMapped(ptr uintptr) *mappedBlock {
	hdr := a.hdrSize()
	for b := a.mmapHead; b != nil; b = b.next {
		if uintptr(payloadAddr(b.mem, hdr)) == ptr {
			return b
		}
	}
	return nil
}
