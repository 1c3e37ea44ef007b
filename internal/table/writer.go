package table

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/rs/zerolog"
)

// Sheet is a named frame written as one worksheet of a workbook
type Sheet struct {
	Name  string
	Frame *Frame
}

// Writer stores frames in the format selected by the output file extension
type Writer struct {
	config      config.OutputConfig
	logger      zerolog.Logger
	fileManager *common.FileManager
}

// WriterBuilder provides a fluent interface for creating a Writer
type WriterBuilder struct {
	config config.OutputConfig
	logger zerolog.Logger
}

// NewWriterBuilder creates a WriterBuilder with default output settings
func NewWriterBuilder(logger zerolog.Logger) *WriterBuilder {
	return &WriterBuilder{
		config: config.NewDefaultOutputConfig(),
		logger: logger.With().Str("component", "TableWriter").Logger(),
	}
}

// WithOutputConfig sets the output configuration
func (b *WriterBuilder) WithOutputConfig(cfg config.OutputConfig) *WriterBuilder {
	b.config = cfg
	return b
}

// Build creates the Writer
func (b *WriterBuilder) Build() (*Writer, error) {
	if b.config.SQLiteTable == "" {
		b.config.SQLiteTable = "records"
	}
	if b.config.CompressionCodec == "" {
		b.config.CompressionCodec = "zstd"
	}
	return &Writer{
		config:      b.config,
		logger:      b.logger,
		fileManager: common.NewFileManager(b.logger),
	}, nil
}

// Write stores frame at path. sheet names the worksheet for workbook output.
func (w *Writer) Write(path, sheet string, frame *Frame) error {
	return w.WriteSheets(path, []Sheet{{Name: sheet, Frame: frame}})
}

// WriteSheets stores several frames. Only workbooks hold more than one sheet;
// for other formats exactly one sheet is accepted.
func (w *Writer) WriteSheets(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return common.NewValidationError("sheets", 0, "nothing to write")
	}
	if !config.IsTableExtension(path) {
		return common.NewValidationError("path", path, "unsupported table file extension")
	}
	if err := w.fileManager.EnsureDirectory(filepath.Dir(path), 0755); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && len(sheets) > 1 {
		return common.NewValidationError("path", path, "only .xlsx output can hold several sheets")
	}

	var err error
	switch ext {
	case ".xlsx":
		err = writeWorkbook(path, sheets, w.config.AutoFitColumns)
	case ".csv":
		err = w.writeCSVFile(path, sheets[0].Frame)
	case ".parquet":
		err = writeParquet(path, sheets[0].Frame, w.config.CompressionCodec)
	case ".db", ".sqlite":
		err = writeSQLite(path, w.config.SQLiteTable, sheets[0].Frame)
	}
	if err != nil {
		return common.WrapErrorf(err, "failed to write table: %s", path)
	}

	rows := 0
	for _, s := range sheets {
		rows += s.Frame.Len()
	}
	w.logger.Info().Str("path", path).Int("sheets", len(sheets)).Int("rows", rows).Msg("Wrote table")
	return nil
}

func (w *Writer) writeCSVFile(path string, frame *Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, frame); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
