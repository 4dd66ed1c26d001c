package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "-h", "--help":
		printHelp()
		return
	case "-v", "--version":
		fmt.Printf("heapviz %s\n", version)
		return
	}

	tracePath := os.Args[1]
	ops, err := loadTrace(tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	p := tea.NewProgram(newModel(ops), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

var version = "dev"

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: heapviz <trace-file>\n")
	fmt.Fprintf(os.Stderr, "Try 'heapviz --help' for more information.\n")
}

func printHelp() {
	fmt.Println("heapviz - interactive viewer for gomalloc trace scripts")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  heapviz <trace-file>")
	fmt.Println()
	fmt.Println("  Steps through a malloc/calloc/free/realloc script one operation at a")
	fmt.Println("  time, rendering the heap and mapped block lists after each step.")
	fmt.Println()
	fmt.Println("KEYS:")
	fmt.Println("  space, n, →   step forward one operation")
	fmt.Println("  p, ←          step backward one operation (replays from the start)")
	fmt.Println("  g             jump to the end of the trace")
	fmt.Println("  q             quit")
}
