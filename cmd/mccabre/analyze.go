package main

import (
	"github.com/urfave/cli/v2"

	"github.com/panbanda/mccabre/internal/report"
	"github.com/panbanda/mccabre/internal/service/analysis"
	"github.com/panbanda/mccabre/pkg/config"
)

func thresholdFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "threshold",
		Usage: "Complexity warning threshold (default from config)",
	}
}

func minTokensFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "min-tokens",
		Usage: "Minimum clone length in tokens (default from config)",
	}
}

func noGitignoreFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "no-gitignore",
		Usage: "Analyze files matched by .gitignore",
	}
}

func showCodeFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "show-code",
		Usage: "Print the cloned source lines under each clone location",
	}
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Run line counts, complexity and clone detection",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			thresholdFlag(),
			minTokensFlag(),
			noGitignoreFlag(),
			showCodeFlag(),
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	cfg, err := loadConfig(c, config.Overrides{
		Threshold:   c.Int("threshold"),
		MinTokens:   c.Int("min-tokens"),
		NoGitignore: c.Bool("no-gitignore"),
	})
	if err != nil {
		return err
	}

	format, err := resolveFormat(c, cfg)
	if err != nil {
		return err
	}

	paths, cleanup, err := resolvePaths(c)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := newService(c, cfg, format)
	result, err := svc.Analyze(c.Context, paths, analysis.AnalyzeOptions{Clones: cfg.Clones.Enabled})
	if err != nil {
		return handleAnalysisError(c, err)
	}
	reportSkipped(c, result)

	opts := []report.ViewOption{report.WithThresholds(svc.Thresholds())}
	if c.Bool("show-code") {
		opts = append(opts, report.WithSources(result.Sources))
	}
	return writeOutput(c, format, report.NewAnalyzeView(result.Report, opts...))
}
