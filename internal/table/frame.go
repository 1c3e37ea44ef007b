package table

import (
	"fmt"

	"github.com/docwrangler/docwrangler/internal/common"
)

// Cell is one spreadsheet value. A cell that is not Valid is null, which is
// distinct from a valid empty string.
type Cell struct {
	Value string
	Valid bool
}

// Str returns a valid cell holding s
func Str(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// Null returns a null cell
func Null() Cell {
	return Cell{}
}

// IsBlank reports whether the cell is null or holds only an empty string
func (c Cell) IsBlank() bool {
	return !c.Valid || c.Value == ""
}

// Frame is an in-memory table with named columns and string cells
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]Cell
}

// NewFrame creates an empty frame with the given columns. Duplicate names are
// disambiguated with a numeric suffix.
func NewFrame(columns ...string) *Frame {
	f := &Frame{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		f.appendColumn(c)
	}
	return f
}

func (f *Frame) appendColumn(name string) {
	unique := name
	for n := 1; ; n++ {
		if _, exists := f.index[unique]; !exists {
			break
		}
		unique = fmt.Sprintf("%s.%d", name, n)
	}
	f.index[unique] = len(f.columns)
	f.columns = append(f.columns, unique)
}

// Columns returns the column names in order
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Len returns the number of rows
func (f *Frame) Len() int {
	return len(f.rows)
}

// HasColumn reports whether the frame has a column named name
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// ColumnIndex returns the position of a column or -1
func (f *Frame) ColumnIndex(name string) int {
	if i, ok := f.index[name]; ok {
		return i
	}
	return -1
}

// AppendRow adds a row. Short rows are padded with nulls.
func (f *Frame) AppendRow(cells []Cell) error {
	if len(cells) > len(f.columns) {
		return common.NewValidationError("row", len(cells), fmt.Sprintf("row has more cells than the %d columns", len(f.columns)))
	}
	row := make([]Cell, len(f.columns))
	copy(row, cells)
	f.rows = append(f.rows, row)
	return nil
}

// AppendValues adds a row of valid string cells
func (f *Frame) AppendValues(values ...string) error {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Str(v)
	}
	return f.AppendRow(cells)
}

// Row returns a copy of row i
func (f *Frame) Row(i int) []Cell {
	out := make([]Cell, len(f.rows[i]))
	copy(out, f.rows[i])
	return out
}

// Get returns the cell at row i of the named column; a missing column reads as null
func (f *Frame) Get(i int, column string) Cell {
	c, ok := f.index[column]
	if !ok {
		return Null()
	}
	return f.rows[i][c]
}

// Set stores a cell at row i of the named column
func (f *Frame) Set(i int, column string, cell Cell) error {
	c, ok := f.index[column]
	if !ok {
		return common.NewValidationError("column", column, "column does not exist")
	}
	f.rows[i][c] = cell
	return nil
}

// AddColumn appends a null-filled column. It is a no-op when the column exists.
func (f *Frame) AddColumn(name string) {
	if f.HasColumn(name) {
		return
	}
	f.appendColumn(name)
	for i := range f.rows {
		f.rows[i] = append(f.rows[i], Null())
	}
}

// InsertColumnAfter adds a null-filled column right after anchor, or at the end
// when anchor is absent. It is a no-op when the column exists.
func (f *Frame) InsertColumnAfter(anchor, name string) {
	if f.HasColumn(name) {
		return
	}
	pos, ok := f.index[anchor]
	if !ok {
		f.AddColumn(name)
		return
	}
	pos++

	columns := make([]string, 0, len(f.columns)+1)
	columns = append(columns, f.columns[:pos]...)
	columns = append(columns, name)
	columns = append(columns, f.columns[pos:]...)
	f.setColumns(columns)

	for i, row := range f.rows {
		next := make([]Cell, 0, len(row)+1)
		next = append(next, row[:pos]...)
		next = append(next, Null())
		next = append(next, row[pos:]...)
		f.rows[i] = next
	}
}

// DropColumns removes the named columns and returns how many were present
func (f *Frame) DropColumns(names ...string) int {
	drop := make(map[int]bool)
	for _, n := range names {
		if i, ok := f.index[n]; ok {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return 0
	}

	var columns []string
	for i, c := range f.columns {
		if !drop[i] {
			columns = append(columns, c)
		}
	}
	for r, row := range f.rows {
		kept := make([]Cell, 0, len(columns))
		for i, cell := range row {
			if !drop[i] {
				kept = append(kept, cell)
			}
		}
		f.rows[r] = kept
	}
	f.setColumns(columns)
	return len(drop)
}

// Filter keeps the rows for which keep returns true and returns the number removed
func (f *Frame) Filter(keep func(i int) bool) int {
	kept := f.rows[:0:0]
	for i, row := range f.rows {
		if keep(i) {
			kept = append(kept, row)
		}
	}
	removed := len(f.rows) - len(kept)
	f.rows = kept
	return removed
}

// Slice drops the first n rows
func (f *Frame) Slice(n int) {
	if n <= 0 {
		return
	}
	if n > len(f.rows) {
		n = len(f.rows)
	}
	f.rows = f.rows[n:]
}

func (f *Frame) setColumns(columns []string) {
	f.columns = columns
	f.index = make(map[string]int, len(columns))
	for i, c := range columns {
		f.index[c] = i
	}
}
