package logger

import (
	"io"

	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/rs/zerolog"
)

// Logger is a built zerolog logger together with its log file
type Logger struct {
	zerolog  zerolog.Logger
	config   LoggerConfig
	closer   io.Closer
	filePath string
}

// Zerolog returns the underlying zerolog instance
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zerolog
}

// FilePath returns the log file path, empty when file logging is off
func (l *Logger) FilePath() string {
	return l.filePath
}

// RunID returns the identifier stamped on every event of this run
func (l *Logger) RunID() string {
	return l.config.RunID
}

// Close flushes and closes the log file
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// New creates a logger for one named run
func New(cfg config.LogConfig, runName string) (*Logger, error) {
	return NewLoggerBuilder().WithRunName(runName).WithConfig(cfg).Build()
}
