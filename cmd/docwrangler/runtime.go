package main

import (
	"context"
	"os"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/docwrangler/docwrangler/internal/logger"
	"github.com/docwrangler/docwrangler/internal/table"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// runtime carries what every subcommand needs: configuration, the run logger
// and the signal-cancelled context
type runtime struct {
	ctx         context.Context
	cfg         *config.GlobalConfig
	log         *logger.Logger
	logger      zerolog.Logger
	fileManager *common.FileManager
}

type runtimeAction func(rt *runtime, c *cli.Context) error

// withRuntime loads configuration and a logger named after the subcommand
// before calling action
func withRuntime(action runtimeAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		rt, err := newRuntime(c)
		if err != nil {
			return err
		}
		defer rt.close()

		rt.logger.Info().Str("command", c.Command.Name).Msg("Run started")
		if err := action(rt, c); err != nil {
			rt.logger.Error().Err(err).Str("command", c.Command.Name).Msg("Run failed")
			return err
		}
		rt.logger.Info().Str("command", c.Command.Name).Msg("Run finished")
		return nil
	}
}

func newRuntime(c *cli.Context) (*runtime, error) {
	bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.WarnLevel)

	cfg, err := config.LoadGlobalConfig(c.String(flagConfig), bootLogger)
	if err != nil {
		return nil, common.WrapError(err, "could not load configuration")
	}
	applyLogOverrides(c, cfg)

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, common.WrapError(err, "configuration validation failed")
	}

	runLog, err := logger.New(cfg.LogConfig, c.Command.Name)
	if err != nil {
		return nil, common.WrapError(err, "could not initialize logger")
	}
	zl := runLog.Zerolog()
	if path := runLog.FilePath(); path != "" {
		zl.Debug().Str("log_file", path).Msg("Logging to file")
	}

	return &runtime{
		ctx:         c.Context,
		cfg:         cfg,
		log:         runLog,
		logger:      zl,
		fileManager: common.NewFileManager(zl),
	}, nil
}

func applyLogOverrides(c *cli.Context, cfg *config.GlobalConfig) {
	if level := c.String(flagLogLevel); level != "" {
		cfg.LogConfig.LogLevel = level
	}
	if format := c.String(flagLogFormat); format != "" {
		cfg.LogConfig.LogFormat = format
	}
	if c.Bool(flagNoLogFile) {
		cfg.LogConfig.DisableFile = true
	}
}

func (rt *runtime) close() {
	if err := rt.log.Close(); err != nil {
		rt.logger.Warn().Err(err).Msg("Failed to close log file")
	}
}

func (rt *runtime) reader() *table.Reader {
	return table.NewReader(rt.logger, rt.cfg.OutputConfig.SQLiteTable)
}

func (rt *runtime) writer() (*table.Writer, error) {
	return table.NewWriterBuilder(rt.logger).WithOutputConfig(rt.cfg.OutputConfig).Build()
}

// writeTable stores frame at path and logs where it went
func (rt *runtime) writeTable(path, sheet string, frame *table.Frame) error {
	w, err := rt.writer()
	if err != nil {
		return err
	}
	if err := w.Write(path, sheet, frame); err != nil {
		return err
	}
	rt.logger.Info().Str("path", path).Int("rows", frame.Len()).Msg("Output written")
	return nil
}
