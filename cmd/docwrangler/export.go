package main

import (
	"os"

	"github.com/docwrangler/docwrangler/internal/httpclient"
	"github.com/docwrangler/docwrangler/internal/qualtrics"
	"github.com/docwrangler/docwrangler/internal/scraper"
	"github.com/urfave/cli/v2"
)

const (
	flagSurveyID = "survey-id"
	flagFilterID = "filter-id"
	flagDepth    = "depth"
	flagDelay    = "delay-ms"
)

func exportSurveyCommand() *cli.Command {
	return &cli.Command{
		Name:  "export-survey",
		Usage: "download survey responses from Qualtrics",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagSurveyID, Usage: "survey id (default: qualtrics_config.survey_id)"},
			&cli.StringFlag{Name: flagFilterID, Usage: "response filter id"},
			outputFlag("", "output table (default: qualtrics_config.output_file)"),
		},
		Action: withRuntime(exportSurveyAction),
	}
}

func exportSurveyAction(rt *runtime, c *cli.Context) error {
	cfg := rt.cfg.QualtricsConfig
	if id := c.String(flagSurveyID); id != "" {
		cfg.SurveyID = id
	}
	if id := c.String(flagFilterID); id != "" {
		cfg.FilterID = id
	}
	output := c.String(flagOutput)
	if output == "" {
		output = cfg.OutputFile
	}

	client, err := httpclient.NewClientBuilder(rt.logger).
		WithConfig(rt.cfg.HTTPClientConfig).
		WithRetry(httpclient.RetryConfigFrom(rt.cfg.HTTPClientConfig.Retry)).
		Build()
	if err != nil {
		return err
	}
	exporter, err := qualtrics.NewExporter(cfg, client, os.Getenv(cfg.TokenEnv), rt.logger)
	if err != nil {
		return err
	}

	frame, err := exporter.Export(rt.ctx)
	if err != nil {
		return err
	}
	return rt.writeTable(output, "Responses", frame)
}

func scrapeCommand() *cli.Command {
	return &cli.Command{
		Name:      "scrape",
		Usage:     "list every page below a start URL",
		ArgsUsage: "<start-url>",
		Flags: []cli.Flag{
			outputFlag("", "page list file (default: scraper_config.output_file)"),
			&cli.IntFlag{Name: flagDepth, Value: -1, Usage: "maximum link depth, 0 for unlimited (default: scraper_config.max_depth)"},
			&cli.IntFlag{Name: flagDelay, Value: -1, Usage: "delay between requests in milliseconds (default: scraper_config.delay_ms)"},
		},
		Action: withRuntime(scrapeAction),
	}
}

func scrapeAction(rt *runtime, c *cli.Context) error {
	start, err := requireArg(c, 0, "start-url")
	if err != nil {
		return err
	}
	cfg := rt.cfg.ScraperConfig
	if depth := c.Int(flagDepth); depth >= 0 {
		cfg.MaxDepth = depth
	}
	if delay := c.Int(flagDelay); delay >= 0 {
		cfg.DelayMs = delay
	}
	output := c.String(flagOutput)
	if output == "" {
		output = cfg.OutputFile
	}

	s := scraper.NewScraper(cfg, rt.logger)
	pages, err := s.Scrape(rt.ctx, start)
	if err != nil {
		return err
	}
	if err := s.WriteList(output, pages); err != nil {
		return err
	}
	rt.logger.Info().Str("path", output).Int("pages", len(pages)).Msg("Page list written")
	return nil
}
