// Package malloc implements a dynamic memory allocator for a single-threaded
// process, replacing the platform's malloc/free/calloc/realloc family.
//
// # Overview
//
// The allocator manages two backing regions requested from the operating
// system:
//
//   - a contiguous heap, grown by advancing a reserved region's break
//     pointer (see the osfacade subpackage), used for requests below
//     MMAPThreshold;
//   - individually mapped anonymous regions, one per allocation, used for
//     requests at or above MMAPThreshold.
//
// Heap blocks are tracked with an in-band header (size, status, and an
// implicit next-block relationship derived from address arithmetic) and
// kept in address order. Allocation uses best-fit search over the heap's
// free blocks, splitting on an exact-fit miss; deallocation coalesces
// forward eagerly, and the placement engine coalesces lazily as it walks
// the list looking for candidates.
//
// # Usage
//
//	a := malloc.NewAllocator(malloc.DefaultConfig)
//	p := a.Malloc(100)
//	...
//	a.Free(p)
//
// Package-level Malloc, Free, Calloc, and Realloc bind to a lazily
// constructed default Allocator for callers that want the single
// process-wide allocator osmem-style code expects.
//
// # Thread safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally; no method blocks or yields.
package malloc
