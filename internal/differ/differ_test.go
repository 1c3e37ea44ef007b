package differ

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineDiffer_Identical(t *testing.T) {
	ld := NewLineDiffer(DefaultDiffConfig())
	fd := ld.Diff("a.md", "one\ntwo\n", "one\ntwo\n")
	assert.True(t, fd.Stats.IsIdentical)

	var buf bytes.Buffer
	require.NoError(t, ld.Render(&buf, fd))
	assert.Empty(t, buf.String())
}

func TestLineDiffer_ChangedLine(t *testing.T) {
	ld := NewLineDiffer(DefaultDiffConfig())
	fd := ld.Diff("a.md", "one\ntwo\nthree\n", "one\n2\nthree\n")
	assert.False(t, fd.Stats.IsIdentical)
	assert.Equal(t, 1, fd.Stats.LinesAdded)
	assert.Equal(t, 1, fd.Stats.LinesDeleted)

	var buf bytes.Buffer
	require.NoError(t, ld.Render(&buf, fd))
	out := buf.String()
	assert.Contains(t, out, "--- a.md\n")
	assert.Contains(t, out, "-two\n")
	assert.Contains(t, out, "+2\n")
	assert.Contains(t, out, " one\n")
}

func TestLineDiffer_CollapsesLongContext(t *testing.T) {
	cfg := DefaultDiffConfig()
	cfg.ContextLines = 1
	ld := NewLineDiffer(cfg)

	before := "a\nb\nc\nd\ne\nf\nx\ng\nh\ni\nj\nk\ny\n"
	after := "a\nb\nc\nd\ne\nf\nX\ng\nh\ni\nj\nk\nY\n"
	var buf bytes.Buffer
	require.NoError(t, ld.Render(&buf, ld.Diff("f", before, after)))

	out := buf.String()
	assert.Contains(t, out, "@@\n")
	assert.NotContains(t, out, " a\n")
	assert.Contains(t, out, " f\n")
	assert.Contains(t, out, "-x\n+X\n")
}
