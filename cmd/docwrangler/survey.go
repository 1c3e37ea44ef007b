package main

import (
	"time"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/geocode"
	"github.com/docwrangler/docwrangler/internal/httpclient"
	"github.com/docwrangler/docwrangler/internal/redirects"
	"github.com/docwrangler/docwrangler/internal/survey"
	"github.com/docwrangler/docwrangler/internal/urlhandler"
	"github.com/urfave/cli/v2"
)

const (
	flagRedirects = "redirects"
	flagExclude   = "exclude"
	flagGeocode   = "geocode"
	flagOffline   = "offline"
)

func surveyCommand() *cli.Command {
	return &cli.Command{
		Name:      "survey",
		Usage:     "clean a survey export and canonicalize its URLs",
		ArgsUsage: "<input.xlsx|input.csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagSheet, Usage: "input sheet name (default: first sheet)"},
			outputFlag("", "output table (default: survey_config.output_file)"),
			&cli.StringFlag{Name: flagRedirects, Aliases: []string{"r"}, Usage: "redirect rule file (default: url_config.redirects_file)"},
			&cli.StringFlag{Name: flagExclude, Aliases: []string{"e"}, Usage: "file of response ids to drop, one per line"},
			&cli.BoolFlag{Name: flagGeocode, Usage: "add Country, City and State from the response coordinates"},
			&cli.BoolFlag{Name: flagOffline, Usage: "geocode from the cache only"},
		},
		Action: withRuntime(surveyAction),
	}
}

func surveyAction(rt *runtime, c *cli.Context) error {
	input, err := requireArg(c, 0, "input")
	if err != nil {
		return err
	}
	cfg := rt.cfg.SurveyConfig
	output := c.String(flagOutput)
	if output == "" {
		output = cfg.OutputFile
	}

	sheet := c.String(flagSheet)
	if sheet == "" {
		sheet = cfg.InputSheet
	}
	frame, err := survey.NewLoader(rt.reader(), cfg.SubheadingMarker, rt.logger).Load(input, sheet)
	if err != nil {
		return err
	}

	normalizer, err := urlhandler.NewNormalizer(rt.cfg.URLConfig.BaseURL)
	if err != nil {
		return err
	}
	builder := survey.NewPipelineBuilder(rt.logger).WithConfig(cfg).WithNormalizer(normalizer)

	rulesPath := c.String(flagRedirects)
	if rulesPath == "" {
		rulesPath = rt.cfg.URLConfig.RedirectsFile
	}
	if rulesPath != "" {
		rules, err := redirects.NewParser(normalizer, rt.logger).LoadFile(rulesPath)
		if err != nil {
			return err
		}
		builder.WithRules(rules)
	}

	if path := c.String(flagExclude); path != "" {
		ids, err := survey.LoadExcludeList(rt.fileManager, path)
		if err != nil {
			return err
		}
		builder.WithExcluded(ids)
	}

	var (
		geocoder *geocode.Geocoder
		cache    *geocode.Cache
	)
	if c.Bool(flagGeocode) {
		geoCfg := rt.cfg.GeocodeConfig
		if c.Bool(flagOffline) {
			geoCfg.Offline = true
		}
		cache, err = geocode.LoadCache(geoCfg.CacheFile, geoCfg.Precision, rt.logger)
		if err != nil {
			return err
		}
		var client *httpclient.Client
		if !geoCfg.Offline {
			client, err = httpclient.NewClientBuilder(rt.logger).
				WithConfig(rt.cfg.HTTPClientConfig).
				WithTimeout(time.Duration(geoCfg.TimeoutSec) * time.Second).
				WithUserAgent(geoCfg.UserAgent).
				Build()
			if err != nil {
				return err
			}
		}
		geocoder = geocode.NewGeocoder(geoCfg, client, cache, rt.logger)
		builder.WithGeocoder(geocoder)
	}

	pipeline, err := builder.Build()
	if err != nil {
		return err
	}
	summary, runErr := pipeline.Run(rt.ctx, frame)

	if cache != nil {
		if err := cache.Save(); err != nil {
			rt.logger.Error().Err(err).Msg("Failed to save geocode cache")
		}
		stats := geocoder.Stats()
		rt.logger.Info().
			Int("lookups", stats.Lookups).
			Int("cache_hits", stats.CacheHits).
			Int("remote_calls", stats.RemoteCalls).
			Int("not_found", stats.NotFound).
			Int("failures", stats.Failures).
			Msg("Geocoder statistics")
	}
	if runErr != nil {
		return common.WrapError(runErr, "survey pipeline interrupted")
	}

	if err := rt.writeTable(output, cfg.OutputSheet, frame); err != nil {
		return err
	}
	summary.Log(rt.logger)
	return nil
}

func tagFeedbackCommand() *cli.Command {
	return &cli.Command{
		Name:      "tag-feedback",
		Usage:     "drop noise columns and derive Product and Document from the page URL",
		ArgsUsage: "<input.xlsx|input.csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagSheet, Usage: "input sheet name (default: first sheet)"},
			outputFlag("", "output table (default: <input>_tagged.<ext>)"),
		},
		Action: withRuntime(tagFeedbackAction),
	}
}

func tagFeedbackAction(rt *runtime, c *cli.Context) error {
	input, err := requireArg(c, 0, "input")
	if err != nil {
		return err
	}
	output := c.String(flagOutput)
	if output == "" {
		output = siblingPath(input, "_tagged", ".xlsx")
	}

	frame, err := rt.reader().ReadFile(input, c.String(flagSheet))
	if err != nil {
		return err
	}
	result, err := survey.TagFeedback(frame, rt.cfg.FeedbackConfig, rt.logger)
	if err != nil {
		return err
	}
	if err := rt.writeTable(output, "Feedback", frame); err != nil {
		return err
	}
	rt.logger.Info().
		Int("rows", frame.Len()).
		Int("removed", result.Removed).
		Int("tagged", result.Changed).
		Msg("Feedback tagging summary")
	return nil
}

func datasetCommand() *cli.Command {
	return &cli.Command{
		Name:      "dataset",
		Usage:     "aggregate cleaned survey responses per page and product",
		ArgsUsage: "[cleaned.xlsx]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagSheet, Usage: "input sheet name (default: survey_config.output_sheet)"},
			outputFlag("", "output table (default: dataset_config.output_file)"),
		},
		Action: withRuntime(datasetAction),
	}
}

func datasetAction(rt *runtime, c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		input = rt.cfg.SurveyConfig.OutputFile
	}
	sheet := c.String(flagSheet)
	if sheet == "" {
		sheet = rt.cfg.SurveyConfig.OutputSheet
	}
	output := c.String(flagOutput)
	if output == "" {
		output = rt.cfg.DatasetConfig.OutputFile
	}

	frame, err := rt.reader().ReadFile(input, sheet)
	if err != nil {
		return err
	}
	dataset, err := survey.BuildDataset(frame, rt.cfg.SurveyConfig.Columns, rt.cfg.DatasetConfig, rt.logger)
	if err != nil {
		return err
	}
	return rt.writeTable(output, "Dataset", dataset)
}
