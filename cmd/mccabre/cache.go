package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/mccabre/internal/cache"
	"github.com/panbanda/mccabre/pkg/config"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the per-file result cache",
		Subcommands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Remove all cached results from the configured cache directory",
				Action: runCacheClear,
			},
		},
	}
}

func runCacheClear(c *cli.Context) error {
	cfg, err := loadConfig(c, config.Overrides{})
	if err != nil {
		return err
	}

	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	messages(c.App.Writer).Success("Cache cleared: %s", cfg.Cache.Dir)
	return nil
}
