// Package humanize formats byte counts and block offsets for display in
// cmd/gomallocctl and cmd/heapviz, the same small-helper role
// cmd/hivectl's formatBytes/formatNumber played inline in stats.go,
// pulled out here so both commands share one implementation.
package humanize

import (
	"fmt"
	"strings"
)

// Bytes renders n as a short, unit-scaled string (e.g. "130.9 KiB").
func Bytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Count renders n with thousands separators (e.g. "130,960").
func Count(n int) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}
	var b strings.Builder
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Offset renders a heap/block offset in hex, matching the addressing
// language gomallocctl and heapviz both use for block headers.
func Offset(off uint32) string {
	return fmt.Sprintf("0x%06x", off)
}
