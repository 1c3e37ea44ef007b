package survey

import (
	"strconv"
	"strings"

	"github.com/docwrangler/docwrangler/internal/table"
	"github.com/rs/zerolog"
)

const (
	importIDMarker = `{"ImportId"`
	unnamedPrefix  = "Unnamed: "
)

// TableReader loads a frame from a file
type TableReader interface {
	ReadFile(path, sheet string) (*table.Frame, error)
}

// Loader reads survey exports and normalizes their header rows
type Loader struct {
	reader           TableReader
	subheadingMarker string
	logger           zerolog.Logger
}

// NewLoader creates a Loader. Rows holding subheadingMarker right under the
// header are treated as a second header.
func NewLoader(reader TableReader, subheadingMarker string, logger zerolog.Logger) *Loader {
	return &Loader{
		reader:           reader,
		subheadingMarker: subheadingMarker,
		logger:           logger.With().Str("component", "SurveyLoader").Logger(),
	}
}

// Load reads path and cleans up the rows right below the header
func (l *Loader) Load(path, sheet string) (*table.Frame, error) {
	frame, err := l.reader.ReadFile(path, sheet)
	if err != nil {
		return nil, err
	}
	l.logger.Info().Int("rows", frame.Len()).Strs("columns", frame.Columns()).Msg("Survey file read")
	l.Normalize(frame)
	return frame, nil
}

// Normalize drops a duplicated header row, empty rows, and surplus columns
// without a header
func (l *Loader) Normalize(frame *table.Frame) {
	if frame.Len() > 0 {
		switch {
		case l.isHeaderCopy(frame):
			l.logger.Info().Msg("Second header row detected and removed")
			frame.Slice(1)
		case l.isSubheading(frame):
			l.logger.Info().Msg("Subheading row detected and removed")
			frame.Slice(1)
		case l.isImportIDRow(frame):
			l.logger.Info().Msg("Import id row detected and removed")
			frame.Slice(1)
		}
	}

	removed := frame.Filter(func(i int) bool {
		for _, c := range frame.Row(i) {
			if !c.IsBlank() {
				return true
			}
		}
		return false
	})
	if removed > 0 {
		l.logger.Info().Int("rows", removed).Msg("Removed empty rows")
	}

	var surplus []string
	for _, col := range frame.Columns() {
		if !strings.HasPrefix(col, unnamedPrefix) {
			continue
		}
		surplus = append(surplus, col)
		for i := 0; i < frame.Len(); i++ {
			if v := frame.Get(i, col); !v.IsBlank() {
				l.logger.Warn().Int("row", i).Str("column", col).Str("value", v.Value).Msg("Row longer than header, trimming cell")
			}
		}
	}
	frame.DropColumns(surplus...)
}

func (l *Loader) isHeaderCopy(frame *table.Frame) bool {
	for c, name := range frame.Columns() {
		cell := frame.Row(0)[c]
		if strings.HasPrefix(name, unnamedPrefix) {
			if !cell.IsBlank() {
				return false
			}
			continue
		}
		value := strings.TrimSpace(cell.Value)
		if value != name && value != headerName(frame, name) {
			return false
		}
	}
	return true
}

// headerName undoes the ".N" suffix a frame adds to repeated column names
func headerName(frame *table.Frame, column string) string {
	dot := strings.LastIndexByte(column, '.')
	if dot <= 0 {
		return column
	}
	if _, err := strconv.Atoi(column[dot+1:]); err != nil {
		return column
	}
	if base := column[:dot]; frame.HasColumn(base) {
		return base
	}
	return column
}

func (l *Loader) isSubheading(frame *table.Frame) bool {
	if l.subheadingMarker == "" {
		return false
	}
	for _, c := range frame.Row(0) {
		if strings.Contains(c.Value, l.subheadingMarker) {
			return true
		}
	}
	return false
}

func (l *Loader) isImportIDRow(frame *table.Frame) bool {
	for _, c := range frame.Row(0) {
		if strings.HasPrefix(strings.TrimSpace(c.Value), importIDMarker) {
			return true
		}
	}
	return false
}
