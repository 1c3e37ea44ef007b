package logger

import (
	"github.com/docwrangler/docwrangler/internal/config"
)

// ConvertConfig converts the file configuration to a LoggerConfig.
// An invalid level falls back to info; the error is returned for reporting.
func ConvertConfig(cfg config.LogConfig) (LoggerConfig, error) {
	level, err := ParseLevel(cfg.LogLevel)

	lc := DefaultLoggerConfig()
	lc.Level = level
	lc.Format = ParseFormat(cfg.LogFormat)
	lc.EnableFile = !cfg.DisableFile
	lc.FilePath = cfg.LogFile
	if cfg.LogDir != "" {
		lc.LogDir = cfg.LogDir
	}
	if cfg.MaxLogSizeMB > 0 {
		lc.MaxSizeMB = cfg.MaxLogSizeMB
	}
	if cfg.MaxLogBackups > 0 {
		lc.MaxBackups = cfg.MaxLogBackups
	}
	return lc, err
}
