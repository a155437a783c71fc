package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/mccabre/internal/output"
	"github.com/panbanda/mccabre/internal/remote"
	"github.com/panbanda/mccabre/internal/service/analysis"
	"github.com/panbanda/mccabre/pkg/config"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// resolvePaths clones remote repository arguments (owner/repo@ref, git URLs)
// into temporary directories. Call cleanup when analysis is done.
func resolvePaths(c *cli.Context) ([]string, func(), error) {
	var progress io.Writer
	if c.Bool("verbose") {
		progress = c.App.ErrWriter
	}
	return remote.Resolve(c.Context, getPaths(c), progress)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "mccabre",
		Usage:   "Code complexity, line count and clone detection",
		Version: version,
		Description: `mccabre measures lines of code, McCabe cyclomatic complexity and
token-level code clones without parsing, so it works on partial and
broken sources alike.

Supports: Rust, JavaScript, TypeScript, Go, Java, C++`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"MCCABRE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, yaml, toon (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Report skipped files and cache problems on stderr",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable the result cache for this run",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			complexityCmd(),
			clonesCmd(),
			locCmd(),
			configCmd(),
			cacheCmd(),
			mcpCmd(),
		},
	}
}

// loadConfig reads --config or the first config file found in the working
// directory, then applies command-line overrides.
func loadConfig(c *cli.Context, o config.Overrides) (*config.Config, error) {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	result, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, err
	}
	cfg := result.Config
	cfg.MergeFlags(o)
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

// resolveFormat resolves the output format and color setting from flags
// and config.
func resolveFormat(c *cli.Context, cfg *config.Config) (output.Format, error) {
	name := c.String("format")
	if name == "" {
		name = cfg.Output.Format
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return "", err
	}

	if !cfg.Output.Color {
		color.NoColor = true
	}
	return format, nil
}

// writeOutput renders data to --output or the app writer. The output file
// is created here, after analysis, so a failed run leaves it untouched.
func writeOutput(c *cli.Context, format output.Format, data any) error {
	path := c.String("output")
	if path == "" {
		return output.NewWriterFormatter(format, c.App.Writer, !color.NoColor).Output(data)
	}

	formatter, err := output.NewFormatter(format, path, false)
	if err != nil {
		return err
	}
	if err := formatter.Output(data); err != nil {
		formatter.Close()
		return err
	}
	return formatter.Close()
}

func newLogger(c *cli.Context) *log.Logger {
	if !c.Bool("verbose") {
		return nil
	}
	return log.New(c.App.ErrWriter, "mccabre: ", 0)
}

func newService(c *cli.Context, cfg *config.Config, format output.Format) *analysis.Service {
	opts := []analysis.Option{
		analysis.WithConfig(cfg),
		analysis.WithLogger(newLogger(c)),
	}
	if format == output.FormatText {
		opts = append(opts, analysis.WithProgress(c.App.ErrWriter))
	}
	return analysis.New(opts...)
}

// handleAnalysisError turns "nothing to analyze" into a warning.
func handleAnalysisError(c *cli.Context, err error) error {
	if errors.Is(err, analysis.ErrNoFiles) {
		messages(c.App.ErrWriter).Warning("No supported files found")
		return nil
	}
	return fmt.Errorf("analysis failed: %w", err)
}

// reportSkipped summarizes files that could not be analyzed.
func reportSkipped(c *cli.Context, result *analysis.Result) {
	if !result.Errors.HasErrors() {
		return
	}
	msg := fmt.Sprintf("Skipped %d files", result.Errors.Len())
	if !c.Bool("verbose") {
		msg += " (use --verbose for details)"
	}
	messages(c.App.ErrWriter).Warning("%s", msg)
}

// messages returns a text formatter for status lines on w.
func messages(w io.Writer) *output.Formatter {
	return output.NewWriterFormatter(output.FormatText, w, !color.NoColor)
}
