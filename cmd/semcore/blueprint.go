package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pi22by7/semcore/internal/blueprint"
	"github.com/pi22by7/semcore/internal/framework"
)

var blueprintCommand = &cli.Command{
	Name:  "blueprint",
	Usage: "Detect entry points, key directories, and feature groupings for a codebase",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "json",
			Aliases: []string{"j"},
			Usage:   "Output as JSON",
		},
	},
	Action: blueprintCommandAction,
}

func blueprintCommandAction(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	detector := framework.NewFrameworkDetector()
	frameworks, err := detector.DetectFrameworks(cfg.Project.Root)
	if err != nil {
		return fmt.Errorf("framework detection failed: %w", err)
	}

	analyzer := blueprint.NewBlueprintAnalyzer()
	entryPoints, err := analyzer.DetectEntryPoints(cfg.Project.Root, frameworks)
	if err != nil {
		return fmt.Errorf("entry point detection failed: %w", err)
	}
	keyDirs, err := analyzer.MapKeyDirectories(cfg.Project.Root)
	if err != nil {
		return fmt.Errorf("key directory mapping failed: %w", err)
	}
	features, err := analyzer.BuildFeatureMap(cfg.Project.Root)
	if err != nil {
		return fmt.Errorf("feature mapping failed: %w", err)
	}

	if c.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"entry_points":   entryPoints,
			"key_directories": keyDirs,
			"features":       features,
		})
	}

	fmt.Printf("Entry points:\n")
	for _, e := range entryPoints {
		fmt.Printf("  [%s] %s (confidence=%.2f)\n", e.EntryType, e.FilePath, e.Confidence)
	}
	fmt.Printf("\nKey directories:\n")
	for _, d := range keyDirs {
		fmt.Printf("  %s (%s, %d files)\n", d.Path, d.Type, d.FileCount)
	}
	fmt.Printf("\nFeatures:\n")
	for _, f := range features {
		fmt.Printf("  %s: %d primary, %d related files\n", f.Feature, len(f.PrimaryFiles), len(f.RelatedFiles))
	}
	return nil
}

var frameworksCommand = &cli.Command{
	Name:  "frameworks",
	Usage: "Detect frameworks in use from manifest and project-structure evidence",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "json",
			Aliases: []string{"j"},
			Usage:   "Output as JSON",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfigWithOverrides(c)
		if err != nil {
			return err
		}
		detector := framework.NewFrameworkDetector()
		frameworks, err := detector.DetectFrameworks(cfg.Project.Root)
		if err != nil {
			return fmt.Errorf("framework detection failed: %w", err)
		}
		if c.Bool("json") {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(frameworks)
		}
		for _, f := range frameworks {
			fmt.Printf("%s (confidence=%.2f, version=%s)\n", f.Name, f.Confidence, f.Version)
			for _, e := range f.Evidence {
				fmt.Printf("  - %s\n", e)
			}
		}
		return nil
	},
}
