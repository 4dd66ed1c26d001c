package malloc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unsafe"
)

// TraceOp is one parsed line of a gomallocctl/heapviz trace script: a
// single call into the public API, addressing earlier allocations by the
// order they occurred in rather than by raw pointer value (a script is
// meant to be hand-written or generated independently of any one run's
// actual addresses).
type TraceOp struct {
	Kind   string // "malloc", "calloc", "free", "realloc"
	Handle int    // free/realloc: index into the handle table being targeted
	A, B   int    // malloc: A=size; calloc: A=nmemb, B=size; realloc: A=size
}

// ParseTrace reads one operation per line:
//
//	malloc <size>
//	calloc <nmemb> <size>
//	free <handle>
//	realloc <handle> <size>
//
// Blank lines and lines beginning with '#' are skipped.
func ParseTrace(r io.Reader) ([]TraceOp, error) {
	var ops []TraceOp
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		op, err := parseTraceLine(strings.Fields(text))
		if err != nil {
			return nil, fmt.Errorf("trace line %d: %w", lineNo, err)
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}

func parseTraceLine(fields []string) (TraceOp, error) {
	if len(fields) == 0 {
		return TraceOp{}, fmt.Errorf("empty operation")
	}
	switch fields[0] {
	case "malloc":
		n, err := traceInt(fields, 1)
		return TraceOp{Kind: "malloc", A: n}, err
	case "calloc":
		nmemb, err := traceInt(fields, 1)
		if err != nil {
			return TraceOp{}, err
		}
		size, err := traceInt(fields, 2)
		return TraceOp{Kind: "calloc", A: nmemb, B: size}, err
	case "free":
		h, err := traceInt(fields, 1)
		return TraceOp{Kind: "free", Handle: h}, err
	case "realloc":
		h, err := traceInt(fields, 1)
		if err != nil {
			return TraceOp{}, err
		}
		n, err := traceInt(fields, 2)
		return TraceOp{Kind: "realloc", Handle: h, A: n}, err
	default:
		return TraceOp{}, fmt.Errorf("unknown operation %q", fields[0])
	}
}

func traceInt(fields []string, idx int) (int, error) {
	if idx >= len(fields) {
		return 0, fmt.Errorf("missing argument %d", idx)
	}
	return strconv.Atoi(fields[idx])
}

// TraceHandles maps the handle indices a trace script refers to onto the
// live payload pointers the allocator actually returned, since a script's
// "free 0" means "free whatever malloc/calloc call 0 produced (or what a
// later realloc of handle 0 returned)", not a literal address.
type TraceHandles struct {
	ptrs []unsafe.Pointer
}

// Get returns the pointer currently bound to handle h, or nil if h is out
// of range (a malformed or adversarial trace script).
func (h *TraceHandles) Get(handle int) unsafe.Pointer {
	if handle < 0 || handle >= len(h.ptrs) {
		return nil
	}
	return h.ptrs[handle]
}

// Run replays op against a, updating h to reflect the new state:
// malloc/calloc append a new handle, free/realloc mutate the handle's
// entry in place. It returns the pointer the underlying API call produced
// (nil for free).
func (a *Allocator) Run(h *TraceHandles, op TraceOp) unsafe.Pointer {
	switch op.Kind {
	case "malloc":
		p := a.Malloc(op.A)
		h.ptrs = append(h.ptrs, p)
		return p
	case "calloc":
		p := a.Calloc(op.A, op.B)
		h.ptrs = append(h.ptrs, p)
		return p
	case "free":
		p := h.Get(op.Handle)
		a.Free(p)
		if op.Handle >= 0 && op.Handle < len(h.ptrs) {
			h.ptrs[op.Handle] = nil
		}
		return nil
	case "realloc":
		p := a.Realloc(h.Get(op.Handle), op.A)
		if op.Handle >= 0 && op.Handle < len(h.ptrs) {
			h.ptrs[op.Handle] = p
		}
		return p
	default:
		return nil
	}
}
