package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tudorionescu/gomalloc/internal/humanize"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the configuration an allocator would start from",
		RunE: func(cmd *cobra.Command, args []string) error {
			alloc := newAllocator()
			if jsonOut {
				return printJSON(alloc.Stats())
			}
			fmt.Printf("initial heap:   %s\n", humanize.Bytes(uint64(initialHeap)))
			fmt.Printf("mmap threshold: %s\n", humanize.Bytes(uint64(mmapThreshold)))
			fmt.Printf("alignment:      %d bytes\n", alignment)
			printStatsSummary(alloc.Stats())
			return nil
		},
	}
}
