package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/docwrangler/docwrangler/internal/common"
	"gopkg.in/natefinch/lumberjack.v2"
)

// WriterFactory creates writers based on format
type WriterFactory struct {
	strategies map[LogFormat]WriterStrategy
}

// NewWriterFactory creates a new writer factory
func NewWriterFactory() *WriterFactory {
	return &WriterFactory{
		strategies: map[LogFormat]WriterStrategy{
			FormatJSON:    &JSONWriterStrategy{},
			FormatConsole: &ConsoleWriterStrategy{HideRunID: true},
			FormatText:    &TextWriterStrategy{},
		},
	}
}

// CreateConsoleWriter creates the console echo writer
func (wf *WriterFactory) CreateConsoleWriter(cfg LoggerConfig) io.Writer {
	out := cfg.ConsoleOut
	if out == nil {
		out = os.Stderr
	}
	strategy, exists := wf.strategies[cfg.Format]
	if !exists {
		strategy = &ConsoleWriterStrategy{HideRunID: true}
	}
	return strategy.CreateWriter(out)
}

// CreateFileWriter creates the per-run log file writer
func (wf *WriterFactory) CreateFileWriter(cfg LoggerConfig, now time.Time) (*lumberjack.Logger, io.Writer, error) {
	finalPath := wf.BuildLogPath(cfg, now)

	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		return nil, nil, common.WrapError(err, "failed to create log directory")
	}

	lumberjackLogger := &lumberjack.Logger{
		Filename:   finalPath,
		MaxSize:    cfg.MaxSizeMB,
		LocalTime:  true,
		MaxBackups: cfg.MaxBackups,
	}

	if cfg.Format == FormatConsole {
		return lumberjackLogger, (&ConsoleWriterStrategy{NoColor: true}).CreateWriter(lumberjackLogger), nil
	}

	strategy, exists := wf.strategies[cfg.Format]
	if !exists {
		strategy = &JSONWriterStrategy{}
	}
	return lumberjackLogger, strategy.CreateWriter(lumberjackLogger), nil
}

// BuildLogPath returns the explicit file path, or "<dir>/<run>_<timestamp>.log"
func (wf *WriterFactory) BuildLogPath(cfg LoggerConfig, now time.Time) string {
	if cfg.FilePath != "" {
		return cfg.FilePath
	}
	name := cfg.RunName
	if name == "" {
		name = "docwrangler"
	}
	return filepath.Join(cfg.LogDir, common.TimestampedName(name, ".log", now))
}
