package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tudorionescu/gomalloc/internal/humanize"
	"github.com/tudorionescu/gomalloc/pkg/malloc"
)

// model is the heapviz bubbletea Model: a cursor position into a fixed
// trace script, re-replayed from the start on every move (see trace.go's
// replay). This mirrors hiveexplorer's Model/Update/View split, reduced to
// a single pane since there is only one thing to browse here.
type model struct {
	ops    []malloc.TraceOp
	cursor int // number of ops applied so far, 0..len(ops)

	width, height int
}

func newModel(ops []malloc.TraceOp) model {
	return model{ops: ops}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "n", "right":
			if m.cursor < len(m.ops) {
				m.cursor++
				log.Debug("step forward", "cursor", m.cursor)
			}
		case "p", "left":
			if m.cursor > 0 {
				m.cursor--
				log.Debug("step backward", "cursor", m.cursor)
			}
		case "g":
			m.cursor = len(m.ops)
		case "0":
			m.cursor = 0
		}
	}
	return m, nil
}

func (m model) View() string {
	a, _ := replay(m.ops, m.cursor)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("heapviz — step %d/%d", m.cursor, len(m.ops))))
	b.WriteString("\n\n")

	if m.cursor < len(m.ops) {
		b.WriteString(dimStyle.Render("next: " + traceOpString(m.ops[m.cursor])))
	} else {
		b.WriteString(dimStyle.Render("end of trace"))
	}
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render("Heap"))
	b.WriteString("\n")
	for _, blk := range a.HeapBlocks() {
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			dimStyle.Render(humanize.Offset(blk.Offset)),
			statusStyle(blk.Status).Render(fmt.Sprintf("%-6s", blk.Status)),
			humanize.Bytes(uint64(blk.Size))))
	}

	mapped := a.MappedBlocks()
	if len(mapped) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Mapped"))
		b.WriteString("\n")
		for i, blk := range mapped {
			b.WriteString(fmt.Sprintf("  #%-5d %s  %s\n",
				i, statusStyle(blk.Status).Render(blk.Status), humanize.Bytes(uint64(blk.Size))))
		}
	}

	b.WriteString(footerStyle.Render("space/n next · p back · g end · 0 start · q quit"))
	return b.String()
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
