package logger

import (
	"io"
	stdlog "log"
	"time"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LoggerBuilder provides fluent interface for building loggers
type LoggerBuilder struct {
	config  LoggerConfig
	factory *WriterFactory
	now     func() time.Time
}

// NewLoggerBuilder creates a new logger builder
func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{
		config:  DefaultLoggerConfig(),
		factory: NewWriterFactory(),
		now:     time.Now,
	}
}

// WithConfig sets the logger configuration
func (lb *LoggerBuilder) WithConfig(cfg config.LogConfig) *LoggerBuilder {
	runName, consoleOut := lb.config.RunName, lb.config.ConsoleOut
	loggerConfig, _ := ConvertConfig(cfg)
	loggerConfig.RunName = runName
	loggerConfig.ConsoleOut = consoleOut
	lb.config = loggerConfig
	return lb
}

// WithRunName names the run; it prefixes the generated log file
func (lb *LoggerBuilder) WithRunName(name string) *LoggerBuilder {
	lb.config.RunName = name
	return lb
}

// WithFilePath pins the log file path instead of generating one
func (lb *LoggerBuilder) WithFilePath(path string) *LoggerBuilder {
	lb.config.FilePath = path
	lb.config.EnableFile = path != ""
	return lb
}

// WithConsoleOutput redirects the console echo
func (lb *LoggerBuilder) WithConsoleOutput(w io.Writer) *LoggerBuilder {
	lb.config.ConsoleOut = w
	return lb
}

// WithFileDisabled turns off the log file
func (lb *LoggerBuilder) WithFileDisabled() *LoggerBuilder {
	lb.config.EnableFile = false
	return lb
}

// Build creates the logger instance
func (lb *LoggerBuilder) Build() (*Logger, error) {
	if err := lb.validateConfig(); err != nil {
		return nil, err
	}

	if lb.config.RunID == "" {
		lb.config.RunID = uuid.NewString()
	}

	var writers []io.Writer
	var closer io.Closer
	var filePath string

	if lb.config.EnableConsole {
		writers = append(writers, lb.factory.CreateConsoleWriter(lb.config))
	}

	if lb.config.EnableFile {
		now := lb.now()
		fileLogger, fileWriter, err := lb.factory.CreateFileWriter(lb.config, now)
		if err != nil {
			return nil, err
		}
		writers = append(writers, fileWriter)
		closer = fileLogger
		filePath = fileLogger.Filename
	}

	if len(writers) == 0 {
		return nil, common.NewError("no output writers configured")
	}

	zerologInstance := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lb.config.Level).
		With().
		Timestamp().
		Str(runIDField, lb.config.RunID).
		Logger()

	lb.configureStandardLog(zerologInstance)

	return &Logger{
		zerolog:  zerologInstance,
		config:   lb.config,
		closer:   closer,
		filePath: filePath,
	}, nil
}

func (lb *LoggerBuilder) validateConfig() error {
	if lb.config.MaxSizeMB <= 0 {
		return common.NewValidationError("max_size_mb", lb.config.MaxSizeMB, "max size must be positive")
	}
	if lb.config.EnableFile && lb.config.FilePath == "" && lb.config.LogDir == "" {
		return common.NewValidationError("log_dir", lb.config.LogDir, "log directory required when file logging enabled")
	}
	return nil
}

// configureStandardLog routes the standard log package through zerolog
func (lb *LoggerBuilder) configureStandardLog(logger zerolog.Logger) {
	stdlog.SetOutput(logger)
	stdlog.SetFlags(0)
}
