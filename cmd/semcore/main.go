package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/pi22by7/semcore/internal/config"
)

var version = "dev"

func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}

	cfg, err := config.LoadKDL(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load .semcore.kdl: %w", err)
	}
	if cfg == nil {
		cfg = config.Default()
		cfg.Project.Root = absRoot
	}

	if len(c.StringSlice("exclude")) > 0 {
		cfg.Exclude = append(cfg.Exclude, c.StringSlice("exclude")...)
	}
	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:    "semcore",
		Usage:   "Polyglot semantic concept extraction, relationship learning, and pattern learning",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Codebase root to analyze",
				Value:   ".",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Additional glob exclusions layered over the config defaults",
			},
		},
		Commands: []*cli.Command{
			analyzeCommand,
			learnCommand,
			patternsCommand,
			predictCommand,
			relationshipsCommand,
			blueprintCommand,
			frameworksCommand,
			parseCommand,
			watchCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "semcore: %v\n", err)
		os.Exit(1)
	}
}
