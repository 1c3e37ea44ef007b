package main

import (
	"path/filepath"
	"strings"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/urfave/cli/v2"
)

const (
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagNoLogFile = "no-log-file"
	flagOutput    = "output"
	flagSheet     = "sheet"
	flagDryRun    = "dry-run"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "path to the YAML/JSON configuration file. If not set, searches default locations",
		},
		&cli.StringFlag{
			Name:  flagLogLevel,
			Usage: "log level (trace, debug, info, warn, error), overrides the config file",
		},
		&cli.StringFlag{
			Name:  flagLogFormat,
			Usage: "console log format (console, json, text), overrides the config file",
		},
		&cli.BoolFlag{
			Name:  flagNoLogFile,
			Usage: "log to the console only",
		},
	}
}

func outputFlag(value, usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Value:   value,
		Usage:   usage,
	}
}

func dryRunFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  flagDryRun,
		Usage: "print a diff instead of rewriting files",
	}
}

// requireArg returns the positional argument at index i
func requireArg(c *cli.Context, i int, name string) (string, error) {
	arg := strings.TrimSpace(c.Args().Get(i))
	if arg == "" {
		return "", common.NewValidationError(name, "", "argument is required (usage: "+c.Command.Name+" "+c.Command.ArgsUsage+")")
	}
	return arg, nil
}

// siblingPath returns input with suffix added before its extension, using ext
// when input has none
func siblingPath(input, suffix, ext string) string {
	inExt := filepath.Ext(input)
	if inExt == "" {
		inExt = ext
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix + inExt
}
