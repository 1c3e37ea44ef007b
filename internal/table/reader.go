package table

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Reader loads frames from spreadsheet, CSV, parquet and SQLite files
type Reader struct {
	logger zerolog.Logger
	table  string
}

// NewReader creates a Reader. table is the SQLite table read from .db files.
func NewReader(logger zerolog.Logger, table string) *Reader {
	if table == "" {
		table = "records"
	}
	return &Reader{
		logger: logger.With().Str("component", "TableReader").Logger(),
		table:  table,
	}
}

// ReadFile loads path into a frame. For workbooks sheet selects the worksheet;
// an empty sheet selects the first one.
func (r *Reader) ReadFile(path, sheet string) (*Frame, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.WrapErrorf(common.ErrNotFound, "input table not found: %s", path)
		}
		return nil, common.WrapErrorf(err, "failed to stat input table: %s", path)
	}

	var (
		frame *Frame
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		frame, err = r.readWorkbook(path, sheet)
	case ".csv":
		frame, err = r.readCSVFile(path)
	case ".parquet":
		frame, err = readParquet(path)
	case ".db", ".sqlite":
		frame, err = readSQLite(path, r.table)
	default:
		return nil, common.NewValidationError("path", path, "unsupported table file extension")
	}
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to read table: %s", path)
	}

	r.logger.Info().Str("path", path).Int("rows", frame.Len()).Int("columns", len(frame.columns)).Msg("Loaded table")
	return frame, nil
}

func (r *Reader) readWorkbook(path, sheet string) (*Frame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.NewValidationError("path", path, "workbook has no sheets")
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if idx, _ := wb.GetSheetIndex(sheet); idx < 0 {
		r.logger.Warn().Str("sheet", sheet).Str("using", sheets[0]).Msg("Sheet not found, reading first sheet")
		sheet = sheets[0]
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	return frameFromRecords(rows)
}

func (r *Reader) readCSVFile(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV loads a frame from CSV. The first record is the header.
func ReadCSV(in io.Reader) (*Frame, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return frameFromRecords(records)
}

// frameFromRecords builds a frame from a header record and ragged data
// records. Empty strings become null cells.
func frameFromRecords(records [][]string) (*Frame, error) {
	if len(records) == 0 {
		return NewFrame(), nil
	}

	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}
	header := make([]string, width)
	for i := range header {
		if i < len(records[0]) {
			header[i] = strings.TrimSpace(records[0][i])
		}
		if header[i] == "" {
			header[i] = unnamedColumn(i)
		}
	}

	frame := NewFrame(header...)
	for _, rec := range records[1:] {
		cells := make([]Cell, len(rec))
		for i, v := range rec {
			if v != "" {
				cells[i] = Str(v)
			}
		}
		if err := frame.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

func unnamedColumn(i int) string {
	name, err := excelize.ColumnNumberToName(i + 1)
	if err != nil {
		return "Unnamed"
	}
	return "Unnamed: " + name
}
