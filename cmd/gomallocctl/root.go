package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tudorionescu/gomalloc/pkg/malloc"
)

var (
	initialHeap   uint32
	mmapThreshold uint32
	alignment     uint32
	jsonOut       bool
)

var rootCmd = &cobra.Command{
	Use:     "gomallocctl",
	Short:   "Drive the gomalloc allocator from the command line",
	Version: "0.1.0",
	Long: `gomallocctl exercises a single gomalloc allocator instance for manual
exploration and scripted fuzz-style testing: replay a sequence of
malloc/calloc/free/realloc calls and inspect the resulting heap and mapped
block lists.`,
}

func init() {
	rootCmd.PersistentFlags().
		Uint32Var(&initialHeap, "initial-heap", malloc.DefaultConfig.InitialHeap, "initial heap size in bytes")
	rootCmd.PersistentFlags().
		Uint32Var(&mmapThreshold, "mmap-threshold", malloc.DefaultConfig.MMAPThreshold, "size at/above which requests are mapped instead of placed on the heap")
	rootCmd.PersistentFlags().
		Uint32Var(&alignment, "alignment", malloc.DefaultConfig.Alignment, "payload alignment in bytes (must be a power of two)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit machine-readable JSON instead of text")
}

// newAllocator builds an Allocator from the global flags, failing the
// process (not returning an error) on OS resource exhaustion — there is no
// host program here to hand a softer failure back to.
func newAllocator() *malloc.Allocator {
	return malloc.NewAllocator(malloc.AllocatorConfig{
		Alignment:     alignment,
		InitialHeap:   initialHeap,
		MMAPThreshold: mmapThreshold,
		ReserveBytes:  malloc.DefaultConfig.ReserveBytes,
		OnFatal: func(err error) {
			fmt.Fprintf(os.Stderr, "gomallocctl: fatal allocator error: %v\n", err)
			os.Exit(1)
		},
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
