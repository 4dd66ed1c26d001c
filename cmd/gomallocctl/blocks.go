package main

import (
	"fmt"

	"github.com/tudorionescu/gomalloc/internal/humanize"
	"github.com/tudorionescu/gomalloc/pkg/malloc"
)

// printBlockTable renders the heap and mapped lists the way hivectl's
// stats.go renders its own section headers: a short label, then one line
// per entry.
func printBlockTable(a *malloc.Allocator) {
	fmt.Println("Heap blocks:")
	for _, b := range a.HeapBlocks() {
		fmt.Printf("  %s  %-8s %s\n", humanize.Offset(b.Offset), b.Status, humanize.Bytes(uint64(b.Size)))
	}
	mapped := a.MappedBlocks()
	if len(mapped) == 0 {
		return
	}
	fmt.Println("Mapped blocks:")
	for i, b := range mapped {
		fmt.Printf("  #%-5d %-8s %s\n", i, b.Status, humanize.Bytes(uint64(b.Size)))
	}
}

func printStatsSummary(s malloc.Stats) {
	fmt.Printf("heap:   %s across %s blocks (%s free in %s, %s alloc in %s)\n",
		humanize.Bytes(uint64(s.HeapBytes)), humanize.Count(s.HeapBlockCount),
		humanize.Bytes(uint64(s.FreeBytes)), humanize.Count(s.FreeBlockCount),
		humanize.Bytes(uint64(s.AllocBytes)), humanize.Count(s.AllocBlockCount))
	fmt.Printf("mapped: %s across %s blocks\n",
		humanize.Bytes(uint64(s.MappedBytes)), humanize.Count(s.MappedBlockCount))
}
