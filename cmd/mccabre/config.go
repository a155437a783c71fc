package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/mccabre/pkg/config"
)

const defaultConfigFile = "mccabre.toml"

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the effective configuration",
				Description: `Shows the merged configuration from defaults and config file.

Examples:
  mccabre config show                  # Show effective config
  mccabre -c mccabre.toml config show  # Show config from specific file`,
				Action: runConfigShow,
			},
			{
				Name:  "validate",
				Usage: "Validate a configuration file",
				Description: `Validates a mccabre configuration file for syntax errors and invalid values.

Examples:
  mccabre config validate                  # Validates default config locations
  mccabre -c mccabre.toml config validate  # Validates specific file`,
				Action: runConfigValidate,
			},
			{
				Name:  "save",
				Usage: "Write the effective configuration as TOML",
				Description: `Writes the effective configuration to --output (default mccabre.toml).

Examples:
  mccabre config save                       # Write defaults to mccabre.toml
  mccabre -o .mccabre/config.toml config save`,
				Action: runConfigSave,
			},
		},
	}
}

func loadConfigResult(c *cli.Context) (*config.LoadResult, error) {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	return config.LoadConfig(opts...)
}

func runConfigShow(c *cli.Context) error {
	result, err := loadConfigResult(c)
	if err != nil {
		return err
	}

	w := c.App.Writer
	if result.Source != "" {
		fmt.Fprintf(w, "# Configuration from: %s\n\n", result.Source)
	} else {
		fmt.Fprintln(w, "# Default configuration (no config file found)")
	}

	content, err := result.Config.Marshal()
	if err != nil {
		return err
	}
	fmt.Fprint(w, string(content))
	return nil
}

func runConfigValidate(c *cli.Context) error {
	result, err := loadConfigResult(c)
	if err != nil {
		color.New(color.FgRed).Fprintln(c.App.ErrWriter, "Configuration validation failed:")
		fmt.Fprintf(c.App.ErrWriter, "  - %s\n", err)
		return err
	}

	if result.Source != "" {
		messages(c.App.Writer).Success("Configuration valid: %s", result.Source)
	} else {
		color.New(color.FgYellow).Fprintln(c.App.Writer, "No config file found. Default configuration is valid.")
	}
	return nil
}

func runConfigSave(c *cli.Context) error {
	result, err := loadConfigResult(c)
	if err != nil {
		return err
	}

	path := c.String("output")
	if path == "" {
		path = defaultConfigFile
	}
	if err := result.Config.Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	messages(c.App.Writer).Success("Configuration saved to %s", path)
	return nil
}
