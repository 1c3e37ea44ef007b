package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f := NewFrame("ResponseId", "Link URL", "Q1")
	require.NoError(t, f.AppendValues("R_1", "https://docs.nginx.com/a/", "5"))
	require.NoError(t, f.AppendRow([]Cell{Str("R_2"), Null(), Str("3")}))
	require.NoError(t, f.AppendRow([]Cell{Str("R_3")}))
	return f
}

func TestFrame_Basics(t *testing.T) {
	f := sampleFrame(t)

	assert.Equal(t, 3, f.Len())
	assert.Equal(t, []string{"ResponseId", "Link URL", "Q1"}, f.Columns())
	assert.True(t, f.HasColumn("Q1"))
	assert.False(t, f.HasColumn("Q2"))
	assert.Equal(t, 1, f.ColumnIndex("Link URL"))
	assert.Equal(t, -1, f.ColumnIndex("nope"))

	assert.Equal(t, Str("https://docs.nginx.com/a/"), f.Get(0, "Link URL"))
	assert.False(t, f.Get(1, "Link URL").Valid)
	assert.False(t, f.Get(2, "Q1").Valid, "short rows are padded with nulls")
	assert.False(t, f.Get(0, "missing").Valid)

	require.NoError(t, f.Set(1, "Link URL", Str("x")))
	assert.Equal(t, "x", f.Get(1, "Link URL").Value)
	assert.Error(t, f.Set(1, "missing", Str("x")))

	assert.Error(t, f.AppendValues("a", "b", "c", "d"))
}

func TestFrame_DuplicateColumnNames(t *testing.T) {
	f := NewFrame("a", "a", "a")
	assert.Equal(t, []string{"a", "a.1", "a.2"}, f.Columns())
}

func TestFrame_AddAndInsertColumn(t *testing.T) {
	f := sampleFrame(t)

	f.InsertColumnAfter("Link URL", "Original Link URL")
	assert.Equal(t, []string{"ResponseId", "Link URL", "Original Link URL", "Q1"}, f.Columns())
	assert.Equal(t, "5", f.Get(0, "Q1").Value)
	assert.False(t, f.Get(0, "Original Link URL").Valid)

	f.InsertColumnAfter("Link URL", "Original Link URL")
	assert.Len(t, f.Columns(), 4)

	f.InsertColumnAfter("absent", "Tail")
	assert.Equal(t, "Tail", f.Columns()[4])

	f.AddColumn("Extra")
	assert.Len(t, f.Row(0), 6)
}

func TestFrame_DropColumns(t *testing.T) {
	f := sampleFrame(t)

	assert.Equal(t, 1, f.DropColumns("Link URL", "not-there"))
	assert.Equal(t, []string{"ResponseId", "Q1"}, f.Columns())
	assert.Equal(t, "5", f.Get(0, "Q1").Value)
	assert.Equal(t, 1, f.ColumnIndex("Q1"))
	assert.Equal(t, 0, f.DropColumns("nothing"))
}

func TestFrame_FilterAndSlice(t *testing.T) {
	f := sampleFrame(t)

	removed := f.Filter(func(i int) bool { return !f.Get(i, "Link URL").IsBlank() })
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, f.Len())
	assert.Equal(t, "R_1", f.Get(0, "ResponseId").Value)

	g := sampleFrame(t)
	g.Slice(2)
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, "R_3", g.Get(0, "ResponseId").Value)
	g.Slice(10)
	assert.Equal(t, 0, g.Len())
}

func TestCell_IsBlank(t *testing.T) {
	assert.True(t, Null().IsBlank())
	assert.True(t, Str("").IsBlank())
	assert.False(t, Str(" ").IsBlank())
}
