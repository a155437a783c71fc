package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/mccabre/internal/mcpserver"
	"github.com/panbanda/mccabre/pkg/config"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes mccabre's analyzers
as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "mccabre": {
        "command": "mccabre",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze              Line counts, complexity and clones in one report
  - analyze_complexity   Cyclomatic complexity per file and function
  - analyze_clones       Token-level duplicate detection
  - analyze_loc          Physical, logical, comment and blank line counts`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "manifest",
				Usage: "Print the MCP registry server manifest and exit",
			},
		},
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	if c.Bool("manifest") {
		data, err := mcpserver.GenerateManifest(version)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(data))
		return nil
	}

	cfg, err := loadConfig(c, config.Overrides{})
	if err != nil {
		return err
	}
	server := mcpserver.NewServer(version, mcpserver.WithConfig(cfg))
	return server.Run(c.Context)
}
