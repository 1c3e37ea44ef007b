package main

import (
	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/inventory"
	"github.com/docwrangler/docwrangler/internal/readability"
	"github.com/urfave/cli/v2"
)

const (
	flagMapping = "mapping"
	flagNoGit   = "no-git"

	defaultAuditOutput     = "metadata_audit.xlsx"
	defaultInventoryOutput = "doc_inventory.xlsx"
)

func auditMetadataCommand() *cli.Command {
	return &cli.Command{
		Name:      "audit-metadata",
		Usage:     "tabulate the front matter of every Markdown file",
		ArgsUsage: "<content-dir>",
		Flags:     []cli.Flag{outputFlag(defaultAuditOutput, "output table")},
		Action:    withRuntime(auditMetadataAction),
	}
}

func auditMetadataAction(rt *runtime, c *cli.Context) error {
	contentDir, err := requireArg(c, 0, "content-dir")
	if err != nil {
		return err
	}
	frame, summary, err := inventory.NewAuditor(rt.logger).Audit(contentDir)
	if err != nil {
		return err
	}
	if err := rt.writeTable(c.String(flagOutput), "Metadata", frame); err != nil {
		return err
	}
	rt.logger.Info().
		Int("total", summary.Total).
		Int("with_metadata", summary.WithMetadata).
		Int("no_metadata", summary.NoMetadata).
		Int("errors", summary.Errors).
		Msg("Metadata audit summary")
	return nil
}

func docInventoryCommand() *cli.Command {
	return &cli.Command{
		Name:      "doc-inventory",
		Usage:     "map content files to their production URLs",
		ArgsUsage: "<repo-dir>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagMapping, Aliases: []string{"m"}, Usage: "CSV of filepath,url prefixes (default: inventory_config.mapping_file)"},
			outputFlag(defaultInventoryOutput, "output table"),
		},
		Action: withRuntime(docInventoryAction),
	}
}

func docInventoryAction(rt *runtime, c *cli.Context) error {
	repo, err := requireArg(c, 0, "repo-dir")
	if err != nil {
		return err
	}
	mappingFile := c.String(flagMapping)
	if mappingFile == "" {
		mappingFile = rt.cfg.InventoryConfig.MappingFile
	}
	if mappingFile == "" {
		return common.NewValidationError("mapping", "", "a mapping file is required")
	}

	mappings, err := inventory.LoadMappings(rt.fileManager, mappingFile)
	if err != nil {
		return err
	}
	frame, err := inventory.NewDocInventory(rt.cfg.InventoryConfig, rt.logger).Build(repo, mappings)
	if err != nil {
		return err
	}
	return rt.writeTable(c.String(flagOutput), "Inventory", frame)
}

func xmlInventoryCommand() *cli.Command {
	return &cli.Command{
		Name:      "xml-inventory",
		Usage:     "list XML docs with their titles and last commit dates, one sheet per language",
		ArgsUsage: "<repo-dir>",
		Flags: []cli.Flag{
			outputFlag("", "output workbook (default: inventory_config.xml_output_file)"),
			&cli.StringSliceFlag{Name: "lang", Usage: "languages to include (default: inventory_config.xml_languages)"},
			&cli.BoolFlag{Name: flagNoGit, Usage: "skip git history lookups"},
		},
		Action: withRuntime(xmlInventoryAction),
	}
}

func xmlInventoryAction(rt *runtime, c *cli.Context) error {
	repo, err := requireArg(c, 0, "repo-dir")
	if err != nil {
		return err
	}
	cfg := rt.cfg.InventoryConfig
	if langs := c.StringSlice("lang"); len(langs) > 0 {
		cfg.XMLLanguages = langs
	}
	if c.Bool(flagNoGit) {
		cfg.UseGitHistory = false
	}
	output := c.String(flagOutput)
	if output == "" {
		output = cfg.XMLOutputFile
	}

	sheets, err := inventory.NewXMLInventory(cfg, rt.logger).Build(rt.ctx, repo)
	if err != nil {
		return err
	}
	if len(sheets) == 0 {
		rt.logger.Warn().Str("repo", repo).Msg("No XML docs found, nothing written")
		return nil
	}
	w, err := rt.writer()
	if err != nil {
		return err
	}
	if err := w.WriteSheets(output, sheets); err != nil {
		return err
	}
	rt.logger.Info().Str("path", output).Int("sheets", len(sheets)).Msg("Output written")
	return nil
}

func readingLevelCommand() *cli.Command {
	return &cli.Command{
		Name:      "reading-level",
		Usage:     "score the Flesch-Kincaid grade of every Markdown file",
		ArgsUsage: "<content-dir>",
		Flags:     []cli.Flag{outputFlag("", "output table (default: inventory_config.reading_output)")},
		Action:    withRuntime(readingLevelAction),
	}
}

func readingLevelAction(rt *runtime, c *cli.Context) error {
	root, err := requireArg(c, 0, "content-dir")
	if err != nil {
		return err
	}
	output := c.String(flagOutput)
	if output == "" {
		output = rt.cfg.InventoryConfig.ReadingOutput
	}
	frame, err := readability.NewAnalyzer(rt.logger).Run(root)
	if err != nil {
		return err
	}
	return rt.writeTable(output, "Reading Level", frame)
}
