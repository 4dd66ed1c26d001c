//go:build linux || darwin

// Package osfacade supplies the syscall-layer collaborators spec.md assumes
// are available: break-pointer-style heap growth, anonymous mapping and
// unmapping, and page-size inquiry. Go has no portable sbrk(2) binding, so
// Reserve/Sbrk emulate one on top of mmap/mprotect: a large virtual range is
// reserved once (PROT_NONE, no physical cost until touched), and Sbrk commits
// pages at the tail of that reservation without ever relocating it. This is
// the property the rest of the allocator depends on — a payload pointer
// handed to a caller stays valid for the lifetime of the process, even after
// later heap growth (grounded in the teacher's own mmap handling in
// hive/loader_unix.go, generalized from "remap on grow" to "reserve once,
// commit incrementally" because, unlike a hive file's integer cell offsets,
// this allocator hands out real addresses that must never move).
package osfacade

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ErrExhausted indicates a Reserve/Sbrk/Mmap call could not be satisfied.
var ErrExhausted = errors.New("osfacade: resource exhausted")

// Region is a reserved virtual address range with a growable committed
// prefix, standing in for a process's program break.
type Region struct {
	mem       []byte
	committed int
}

// Reserve maps maxBytes of PROT_NONE anonymous memory. No physical memory is
// committed until Sbrk extends the committed prefix, so a generous maxBytes
// is inexpensive.
func Reserve(maxBytes int) (*Region, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("osfacade: reserve size must be positive, got %d", maxBytes)
	}
	mem, err := unix.Mmap(-1, 0, maxBytes, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("%w: reserve %d bytes: %v", ErrExhausted, maxBytes, err)
	}
	return &Region{mem: mem}, nil
}

// Sbrk advances the region's committed length by delta bytes (delta must be
// >= 0) and returns the offset at which the newly committed span begins —
// the same convention as POSIX sbrk returning the previous break.
func (r *Region) Sbrk(delta int) (int, error) {
	if delta < 0 {
		return 0, fmt.Errorf("osfacade: sbrk delta must be non-negative, got %d", delta)
	}
	if delta == 0 {
		return r.committed, nil
	}
	newCommitted := r.committed + delta
	if newCommitted > len(r.mem) {
		return 0, fmt.Errorf("%w: sbrk(%d) exceeds reservation of %d bytes (committed=%d)",
			ErrExhausted, delta, len(r.mem), r.committed)
	}
	// mprotect needs a page-aligned start; the page holding the current
	// break is already read/write, so the call starts at that page's base.
	start := r.committed &^ (PageSize() - 1)
	if err := unix.Mprotect(r.mem[start:newCommitted], unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return 0, fmt.Errorf("%w: mprotect: %v", ErrExhausted, err)
	}
	old := r.committed
	r.committed = newCommitted
	return old, nil
}

// Bytes returns the committed prefix of the reservation.
func (r *Region) Bytes() []byte {
	return r.mem[:r.committed]
}

// Base returns the fixed address of the reservation's first byte. Because
// Reserve never moves or reallocates the backing mapping, a payload address
// computed as Base()+offset stays valid across any number of later Sbrk
// calls — the property the heap realloc "last block extension" case (spec
// §4.6 step 5) relies on.
func (r *Region) Base() unsafe.Pointer {
	return unsafe.Pointer(&r.mem[0])
}

// Close releases the entire reservation back to the OS.
func (r *Region) Close() error {
	if r.mem == nil {
		return nil
	}
	err := unix.Munmap(r.mem)
	r.mem = nil
	r.committed = 0
	return err
}

// Mmap creates an individually mapped, independently addressed anonymous
// region of the given size.
func Mmap(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("osfacade: mmap size must be positive, got %d", size)
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %v", ErrExhausted, size, err)
	}
	return mem, nil
}

// Munmap releases a region obtained from Mmap.
func Munmap(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munmap(b)
}

var (
	pageSizeOnce sync.Once
	pageSize     int
)

// PageSize returns the OS page size, memoized after the first call.
func PageSize() int {
	pageSizeOnce.Do(func() {
		pageSize = unix.Getpagesize()
	})
	return pageSize
}
