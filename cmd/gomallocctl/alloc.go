package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newAllocCmd())
}

func newAllocCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alloc <size> [size...]",
		Short: "Allocate a sequence of sizes and print the resulting block table",
		Long: `alloc issues one malloc(size) call per argument, in order, against a
single allocator instance, then prints the heap and mapped block lists.
It exists to watch the placement engine's best-fit search, splitting, and
heap-extension decisions play out on a chosen sequence of request sizes.

Example:
  gomallocctl alloc 100 200 100
  gomallocctl alloc --mmap-threshold 4096 8192`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sizes := make([]int, len(args))
			for i, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("invalid size %q: %w", a, err)
				}
				sizes[i] = n
			}

			alloc := newAllocator()
			for i, n := range sizes {
				if p := alloc.Malloc(n); p == nil {
					fmt.Printf("malloc(%d) [#%d]: nil\n", n, i)
				} else {
					fmt.Printf("malloc(%d) [#%d]: ok\n", n, i)
				}
			}

			if jsonOut {
				return printJSON(alloc.Stats())
			}
			printBlockTable(alloc)
			printStatsSummary(alloc.Stats())
			return nil
		},
	}
}
