package main

import (
	"github.com/urfave/cli/v2"

	"github.com/panbanda/mccabre/internal/report"
	"github.com/panbanda/mccabre/pkg/config"
)

func clonesCmd() *cli.Command {
	return &cli.Command{
		Name:      "clones",
		Aliases:   []string{"dup"},
		Usage:     "Detect duplicated token sequences",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			minTokensFlag(),
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "Compare token text to rule out hash collisions",
			},
			noGitignoreFlag(),
			showCodeFlag(),
		},
		Action: runClonesCmd,
	}
}

func runClonesCmd(c *cli.Context) error {
	cfg, err := loadConfig(c, config.Overrides{
		MinTokens:   c.Int("min-tokens"),
		Verify:      c.Bool("verify"),
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
	result, err := svc.Clones(c.Context, paths)
	if err != nil {
		return handleAnalysisError(c, err)
	}
	reportSkipped(c, result)

	var opts []report.ViewOption
	if c.Bool("show-code") {
		opts = append(opts, report.WithSources(result.Sources))
	}
	return writeOutput(c, format, report.NewClonesView(result.Clones, opts...))
}
