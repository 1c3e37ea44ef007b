package table

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes frame with a header record. Null cells are written empty.
func WriteCSV(out io.Writer, frame *Frame) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(frame.Columns()); err != nil {
		return err
	}
	record := make([]string, len(frame.columns))
	for _, row := range frame.rows {
		for i, c := range row {
			record[i] = c.Value
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
