package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/urfave/cli/v2"
)

// Exit codes
const (
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates bad arguments from failures while processing
func exitCode(err error) int {
	if errors.Is(err, common.ErrInvalidInput) {
		return exitUsage
	}
	return exitFailure
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "docwrangler",
		Usage: "documentation team data utilities",
		Flags: globalFlags(),
		Commands: []*cli.Command{
			surveyCommand(),
			tagFeedbackCommand(),
			datasetCommand(),
			exportSurveyCommand(),
			archiveCommand(),
			pruneMetadataCommand(),
			auditMetadataCommand(),
			docInventoryCommand(),
			xmlInventoryCommand(),
			readingLevelCommand(),
			scrapeCommand(),
			fixSpansCommand(),
			normalizeURLsCommand(),
			redirectsCommand(),
		},
		ExitErrHandler: func(_ *cli.Context, _ error) {},
	}
}
