package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/docwrangler/docwrangler/internal/archive"
	"github.com/docwrangler/docwrangler/internal/markdown"
	"github.com/docwrangler/docwrangler/internal/metadata"
	"github.com/urfave/cli/v2"
)

const (
	flagOutputDir   = "output-dir"
	flagIncludesDir = "includes-dir"
)

func archiveCommand() *cli.Command {
	return &cli.Command{
		Name:      "archive",
		Usage:     "copy a doc set with includes expanded and shortcodes resolved",
		ArgsUsage: "<docset-dir>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagOutputDir, Usage: "parent directory of the archive (default: archive_config.output_dir)"},
			&cli.StringFlag{Name: flagIncludesDir, Usage: "include snippet directory (default: archive_config.includes_dir, else <docset>/../includes)"},
		},
		Action: withRuntime(archiveAction),
	}
}

func archiveAction(rt *runtime, c *cli.Context) error {
	docSet, err := requireArg(c, 0, "docset-dir")
	if err != nil {
		return err
	}
	cfg := rt.cfg.ArchiveConfig
	if dir := c.String(flagOutputDir); dir != "" {
		cfg.OutputDir = dir
	}
	if dir := c.String(flagIncludesDir); dir != "" {
		cfg.IncludesDir = dir
	}
	if cfg.IncludesDir == "" {
		cfg.IncludesDir = filepath.Join(filepath.Dir(filepath.Clean(docSet)), "includes")
	}

	summary, err := archive.NewArchiver(cfg, rt.logger).Run(docSet)
	if err != nil {
		return err
	}
	rt.logger.Info().
		Str("archive", summary.ArchiveDir).
		Int("processed", summary.Processed).
		Int("succeeded", summary.Succeeded).
		Int("errors", summary.Errors).
		Msg("Archive summary")
	return nil
}

func pruneMetadataCommand() *cli.Command {
	return &cli.Command{
		Name:      "prune-metadata",
		Usage:     "remove obsolete front-matter keys and merge content types",
		ArgsUsage: "<content-dir>",
		Flags:     []cli.Flag{dryRunFlag()},
		Action:    withRuntime(pruneMetadataAction),
	}
}

func pruneMetadataAction(rt *runtime, c *cli.Context) error {
	root, err := requireArg(c, 0, "content-dir")
	if err != nil {
		return err
	}
	builder := metadata.NewPrunerBuilder(rt.logger).WithConfig(rt.cfg.MetadataConfig)
	if c.Bool(flagDryRun) {
		builder.WithDryRun(os.Stdout)
	}
	pruner, err := builder.Build()
	if err != nil {
		return err
	}

	summary, err := pruner.Run(root)
	if err != nil {
		return err
	}
	rt.logger.Info().
		Bool("dry_run", c.Bool(flagDryRun)).
		Int("scanned", summary.Scanned).
		Int("changed", summary.Changed).
		Int("skipped", summary.Skipped).
		Int("errors", summary.Errors).
		Msg("Metadata pruning summary")
	return nil
}

func fixSpansCommand() *cli.Command {
	return &cli.Command{
		Name:      "fix-spans",
		Usage:     "rewrite bold style spans as Markdown emphasis",
		ArgsUsage: "<content-dir>",
		Flags:     []cli.Flag{dryRunFlag()},
		Action:    withRuntime(fixSpansAction),
	}
}

func fixSpansAction(rt *runtime, c *cli.Context) error {
	root, err := requireArg(c, 0, "content-dir")
	if err != nil {
		return err
	}
	var diffOut io.Writer
	if c.Bool(flagDryRun) {
		diffOut = os.Stdout
	}

	summary, err := markdown.NewSpanFixer(rt.logger, diffOut).Run(root)
	if err != nil {
		return err
	}
	rt.logger.Info().
		Bool("dry_run", diffOut != nil).
		Int("scanned", summary.Scanned).
		Int("updated", summary.Updated).
		Int("spans", summary.Spans).
		Int("errors", summary.Errors).
		Msg("Span fix summary")
	return nil
}
