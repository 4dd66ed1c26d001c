package main

import (
	"io"
	"log/slog"
)

// log is heapviz's own logger, defaulting to discard exactly like the
// teacher's hiveexplorer/logger package, except heapviz has no persistent
// log file of its own — a TUI replaying an in-memory trace has nothing
// worth keeping across runs, so SetLogger only ever points at stderr or
// io.Discard.
var log = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger replaces heapviz's logger, called once from main before the
// bubbletea program starts.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	log = l
}
