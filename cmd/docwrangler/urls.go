package main

import (
	"os"
	"strconv"

	"github.com/docwrangler/docwrangler/internal/redirects"
	"github.com/docwrangler/docwrangler/internal/table"
	"github.com/docwrangler/docwrangler/internal/urlhandler"
	"github.com/urfave/cli/v2"
)

const flagMode = "mode"

func normalizeURLsCommand() *cli.Command {
	return &cli.Command{
		Name:      "normalize-urls",
		Usage:     "normalize the URL in the first column of a CSV report",
		ArgsUsage: "<input.csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagMode, Value: string(urlhandler.ModeCanonical), Usage: "canonical or light"},
			outputFlag("", "output file (default: <input>_normalized.csv)"),
		},
		Action: withRuntime(normalizeURLsAction),
	}
}

func normalizeURLsAction(rt *runtime, c *cli.Context) error {
	input, err := requireArg(c, 0, "input")
	if err != nil {
		return err
	}
	mode, err := urlhandler.ParseMode(c.String(flagMode))
	if err != nil {
		return err
	}
	output := c.String(flagOutput)
	if output == "" {
		output = urlhandler.NormalizedPath(input)
	}

	normalizer, err := urlhandler.NewNormalizer(rt.cfg.URLConfig.BaseURL)
	if err != nil {
		return err
	}
	columnNormalizer, err := urlhandler.NewColumnNormalizer(mode, normalizer, rt.logger)
	if err != nil {
		return err
	}

	frame, err := rt.reader().ReadFile(input, "")
	if err != nil {
		return err
	}
	changed := columnNormalizer.NormalizeFirstColumn(frame)
	if err := rt.writeTable(output, "URLs", frame); err != nil {
		return err
	}
	rt.logger.Info().Str("mode", string(mode)).Int("rows", frame.Len()).Int("changed", changed).Msg("URL normalization summary")
	return nil
}

func redirectsCommand() *cli.Command {
	return &cli.Command{
		Name:      "redirects",
		Usage:     "parse a redirect rule file and print the rule table",
		ArgsUsage: "<rules-file>",
		Flags:     []cli.Flag{outputFlag("", "write the rules to a table file instead of stdout")},
		Action:    withRuntime(redirectsAction),
	}
}

func redirectsAction(rt *runtime, c *cli.Context) error {
	path, err := requireArg(c, 0, "rules-file")
	if err != nil {
		return err
	}
	normalizer, err := urlhandler.NewNormalizer(rt.cfg.URLConfig.BaseURL)
	if err != nil {
		return err
	}
	parser := redirects.NewParser(normalizer, rt.logger)
	rules, err := parser.LoadFile(path)
	if err != nil {
		return err
	}

	frame := rulesFrame(rules)
	stats := parser.Stats()
	rt.logger.Info().
		Int("lines", stats.Lines).
		Int("rules", stats.Rules).
		Int("skipped", stats.Skipped).
		Int("duplicates", stats.Duplicates).
		Msg("Redirect parse summary")

	if output := c.String(flagOutput); output != "" {
		return rt.writeTable(output, "Redirects", frame)
	}
	return table.WriteCSV(os.Stdout, frame)
}

func rulesFrame(rules *redirects.RuleSet) *table.Frame {
	frame := table.NewFrame("old_path", "new_path", "line")
	for _, r := range rules.Rules() {
		// column count always matches
		_ = frame.AppendValues(r.OldPath, r.NewPath, strconv.Itoa(r.Line))
	}
	return frame
}
