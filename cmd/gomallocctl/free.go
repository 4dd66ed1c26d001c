package main

import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newFreeCmd())
}

func newFreeCmd() *cobra.Command {
	var sizesFlag string

	cmd := &cobra.Command{
		Use:   "free <index> [index...]",
		Short: "Allocate --sizes, then free the given indices and print the result",
		Long: `free allocates every size in --sizes (in order), then frees the blocks
at the given indices, then prints the resulting block table — useful for
watching coalescing merge adjacent freed blocks.

Example:
  gomallocctl free --sizes 100,100,100 0 1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sizes, err := parseCSVInts(sizesFlag)
			if err != nil {
				return fmt.Errorf("--sizes: %w", err)
			}
			indices := make([]int, len(args))
			for i, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("invalid index %q: %w", a, err)
				}
				indices[i] = n
			}

			alloc := newAllocator()
			ptrs := make([]unsafe.Pointer, len(sizes))
			for i, n := range sizes {
				ptrs[i] = alloc.Malloc(n)
			}
			for _, idx := range indices {
				if idx < 0 || idx >= len(ptrs) {
					return fmt.Errorf("index %d out of range for %d allocations", idx, len(ptrs))
				}
				alloc.Free(ptrs[idx])
			}

			if jsonOut {
				return printJSON(alloc.Stats())
			}
			printBlockTable(alloc)
			printStatsSummary(alloc.Stats())
			return nil
		},
	}
	cmd.Flags().StringVar(&sizesFlag, "sizes", "", "comma-separated list of sizes to allocate first")
	return cmd
}

func parseCSVInts(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("must not be empty")
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
