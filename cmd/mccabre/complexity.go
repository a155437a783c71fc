package main

import (
	"github.com/urfave/cli/v2"

	"github.com/panbanda/mccabre/internal/report"
	"github.com/panbanda/mccabre/internal/service/analysis"
	"github.com/panbanda/mccabre/pkg/config"
)

func complexityCmd() *cli.Command {
	return &cli.Command{
		Name:      "complexity",
		Aliases:   []string{"cx"},
		Usage:     "Report cyclomatic complexity per file and function",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			thresholdFlag(),
			noGitignoreFlag(),
		},
		Action: runComplexityCmd,
	}
}

func runComplexityCmd(c *cli.Context) error {
	cfg, err := loadConfig(c, config.Overrides{
		Threshold:   c.Int("threshold"),
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
	result, err := svc.Analyze(c.Context, paths, analysis.AnalyzeOptions{})
	if err != nil {
		return handleAnalysisError(c, err)
	}
	reportSkipped(c, result)

	return writeOutput(c, format, report.NewComplexityView(result.Report, report.WithThresholds(svc.Thresholds())))
}
