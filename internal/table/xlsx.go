package table

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	minColumnWidth = 8
	maxColumnWidth = 80
	defaultSheet   = "Sheet1"

	// float64 keeps 15 significant digits exactly
	maxNumericDigits = 15
)

func writeWorkbook(path string, sheets []Sheet, autoFit bool) error {
	wb := excelize.NewFile()
	defer wb.Close()

	for i, s := range sheets {
		name := s.Name
		if name == "" {
			name = defaultSheet
		}
		if i == 0 {
			if name != defaultSheet {
				if err := wb.SetSheetName(defaultSheet, name); err != nil {
					return err
				}
			}
		} else if _, err := wb.NewSheet(name); err != nil {
			return err
		}
		if err := fillSheet(wb, name, s.Frame, autoFit); err != nil {
			return err
		}
	}
	return wb.SaveAs(path)
}

func fillSheet(wb *excelize.File, sheet string, frame *Frame, autoFit bool) error {
	widths := make([]int, len(frame.columns))
	for c, name := range frame.columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := wb.SetCellStr(sheet, cell, name); err != nil {
			return err
		}
		widths[c] = utf8.RuneCountInString(name)
	}

	for r, row := range frame.rows {
		for c, value := range row {
			if !value.Valid {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := setCell(wb, sheet, cell, value.Value); err != nil {
				return err
			}
			if n := utf8.RuneCountInString(value.Value); n > widths[c] {
				widths[c] = n
			}
		}
	}

	if !autoFit {
		return nil
	}
	for c, w := range widths {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		width := w + 2
		if width < minColumnWidth {
			width = minColumnWidth
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := wb.SetColWidth(sheet, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}

// setCell stores numbers as numeric cells and everything else as text
func setCell(wb *excelize.File, sheet, cell, value string) error {
	if n, ok := numericValue(value); ok {
		return wb.SetCellFloat(sheet, cell, n, -1, 64)
	}
	return wb.SetCellStr(sheet, cell, value)
}

// numericValue accepts plain finite decimals that read back as the same text,
// so identifiers like "007" or "+1" stay strings.
func numericValue(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	if strconv.FormatFloat(n, 'f', -1, 64) != s {
		return 0, false
	}
	digits := strings.TrimLeft(strings.NewReplacer("-", "", ".", "").Replace(s), "0")
	if len(digits) > maxNumericDigits {
		return 0, false
	}
	return n, true
}
