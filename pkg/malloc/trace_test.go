package malloc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTraceSkipsBlankAndCommentLines(t *testing.T) {
	ops, err := ParseTrace(strings.NewReader(`
# a comment
malloc 100

free 0
`))
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, TraceOp{Kind: "malloc", A: 100}, ops[0])
	assert.Equal(t, TraceOp{Kind: "free", Handle: 0}, ops[1])
}

func TestParseTraceAllOpKinds(t *testing.T) {
	ops, err := ParseTrace(strings.NewReader(
		"malloc 64\ncalloc 10 4\nrealloc 0 128\nfree 1\n",
	))
	require.NoError(t, err)
	require.Len(t, ops, 4)
	assert.Equal(t, TraceOp{Kind: "malloc", A: 64}, ops[0])
	assert.Equal(t, TraceOp{Kind: "calloc", A: 10, B: 4}, ops[1])
	assert.Equal(t, TraceOp{Kind: "realloc", Handle: 0, A: 128}, ops[2])
	assert.Equal(t, TraceOp{Kind: "free", Handle: 1}, ops[3])
}

func TestParseTraceRejectsUnknownOp(t *testing.T) {
	_, err := ParseTrace(strings.NewReader("poke 1 2\n"))
	assert.Error(t, err)
}

func TestParseTraceRejectsMissingArgument(t *testing.T) {
	_, err := ParseTrace(strings.NewReader("malloc\n"))
	assert.Error(t, err)
}

func TestTraceHandlesGetOutOfRangeReturnsNil(t *testing.T) {
	var h TraceHandles
	assert.Nil(t, h.Get(0))
	assert.Nil(t, h.Get(-1))
}

// TestRunReplaysScriptAgainstRealAllocator exercises the full malloc ->
// realloc -> free life cycle of a handle through one trace script.
func TestRunReplaysScriptAgainstRealAllocator(t *testing.T) {
	a := newTestAllocator(t)
	var h TraceHandles

	ops, err := ParseTrace(strings.NewReader("malloc 64\nrealloc 0 128\nfree 0\n"))
	require.NoError(t, err)

	for _, op := range ops {
		a.Run(&h, op)
	}

	assert.Nil(t, h.Get(0))
	assert.Equal(t, 1, a.Stats().FreeBlockCount)
}

func TestRunMallocAppendsNewHandle(t *testing.T) {
	a := newTestAllocator(t)
	var h TraceHandles

	p := a.Run(&h, TraceOp{Kind: "malloc", A: 32})
	require.NotNil(t, p)
	assert.Equal(t, p, h.Get(0))
}
