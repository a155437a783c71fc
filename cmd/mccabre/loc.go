package main

import (
	"github.com/urfave/cli/v2"

	"github.com/panbanda/mccabre/internal/report"
	"github.com/panbanda/mccabre/pkg/analyzer/loc"
	"github.com/panbanda/mccabre/pkg/config"
)

func locCmd() *cli.Command {
	return &cli.Command{
		Name:      "loc",
		Usage:     "Count physical, logical, comment and blank lines",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "rank-by",
				Usage: "Sort by: physical, logical, comments, blank",
				Value: string(loc.RankByLogical),
			},
			&cli.BoolFlag{
				Name:  "rank-dirs",
				Usage: "Aggregate and rank directories instead of files",
			},
			noGitignoreFlag(),
		},
		Action: runLOCCmd,
	}
}

func runLOCCmd(c *cli.Context) error {
	rankBy, err := loc.ParseRankBy(c.String("rank-by"))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c, config.Overrides{NoGitignore: c.Bool("no-gitignore")})
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
	ranked, result, err := svc.LOC(c.Context, paths, rankBy, c.Bool("rank-dirs"))
	if err != nil {
		return handleAnalysisError(c, err)
	}
	reportSkipped(c, result)

	return writeOutput(c, format, report.NewLOCView(ranked))
}
