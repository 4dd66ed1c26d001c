package malloc

import (
	"io"
	"log/slog"
)

// pkgLogger is the package-wide default, matching cmd/hiveexplorer/logger's
// pattern of a package-level *slog.Logger that defaults to discarding
// output until a host opts in.
var pkgLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger installs the package-wide default logger used by allocators
// constructed without an explicit AllocatorConfig.Logger. It never affects
// the allocation/free hot path itself: only lifecycle events (heap
// preallocation, heap growth, mapped-block creation) are logged, and only at
// slog.LevelDebug.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	pkgLogger = l
}

func (a *Allocator) logger() *slog.Logger {
	if a.cfg.Logger != nil {
		return a.cfg.Logger
	}
	return pkgLogger
}
