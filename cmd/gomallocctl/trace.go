package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tudorionescu/gomalloc/pkg/malloc"
)

func init() {
	rootCmd.AddCommand(newTraceCmd())
}

func newTraceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace <file>",
		Short: "Replay a malloc/calloc/free/realloc script and print the final block table",
		Long: `trace reads a script of one operation per line:

  malloc <size>
  calloc <nmemb> <size>
  free <handle>
  realloc <handle> <size>

where <handle> refers to the n-th malloc/calloc call (0-indexed), not a
raw address; realloc rebinds the handle it targets to its result. Blank lines and lines starting with '#' are skipped.
This is the same script format cmd/heapviz replays interactively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ops, err := malloc.ParseTrace(f)
			if err != nil {
				return err
			}

			alloc := newAllocator()
			var handles malloc.TraceHandles
			for i, op := range ops {
				if !jsonOut {
					fmt.Printf("%4d: %s\n", i, traceOpString(op))
				}
				alloc.Run(&handles, op)
			}
			if jsonOut {
				return printJSON(alloc.Stats())
			}

			fmt.Println()
			printBlockTable(alloc)
			printStatsSummary(alloc.Stats())
			return nil
		},
	}
}

func traceOpString(op malloc.TraceOp) string {
	switch op.Kind {
	case "malloc":
		return fmt.Sprintf("malloc(%d)", op.A)
	case "calloc":
		return fmt.Sprintf("calloc(%d, %d)", op.A, op.B)
	case "free":
		return fmt.Sprintf("free(#%d)", op.Handle)
	case "realloc":
		return fmt.Sprintf("realloc(#%d, %d)", op.Handle, op.A)
	default:
		return op.Kind
	}
}
