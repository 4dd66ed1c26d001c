package main

import (
	"os"

	"github.com/tudorionescu/gomalloc/pkg/malloc"
)

func loadTrace(path string) ([]malloc.TraceOp, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return malloc.ParseTrace(f)
}

// replay re-executes ops[:n] against a fresh allocator, returning the
// allocator and handle table as of that point. Re-running from the start
// on every cursor move (rather than maintaining incremental undo state) is
// the simplest correct way to support stepping backward through a trace
// whose operations — especially coalescing — aren't cheaply reversible.
func replay(ops []malloc.TraceOp, n int) (*malloc.Allocator, malloc.TraceHandles) {
	a := malloc.NewAllocator(malloc.DefaultConfig)
	var h malloc.TraceHandles
	for _, op := range ops[:n] {
		a.Run(&h, op)
	}
	return a, h
}
