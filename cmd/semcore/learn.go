package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pi22by7/semcore/internal/learning"
)

var learnCommand = &cli.Command{
	Name:  "learn",
	Usage: "Learn naming/structural/implementation patterns from a codebase, a diff, or an analysis payload",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "json",
			Aliases: []string{"j"},
			Usage:   "Output as JSON",
		},
	},
	Subcommands: []*cli.Command{
		{
			Name:   "codebase",
			Usage:  "Run the full learn_from_codebase pipeline over root",
			Action: learnCodebaseCommand,
		},
		{
			Name:  "changes",
			Usage: "Diff two file revisions and learn naming/structural changes",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "old", Usage: "Path to the old revision", Required: true},
				&cli.StringFlag{Name: "new", Usage: "Path to the new revision", Required: true},
				&cli.StringFlag{Name: "language", Usage: "Source language", Required: true},
			},
			Action: learnChangesCommand,
		},
		{
			Name:  "analysis",
			Usage: "Ingest a {concepts,patterns,approaches} JSON payload",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "file", Usage: "Payload file (defaults to stdin)"},
			},
			Action: learnAnalysisCommand,
		},
		{
			Name:  "change",
			Usage: "Apply a single {type,path,content,language,oldPath} change event",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "file", Usage: "Event file (defaults to stdin)"},
			},
			Action: learnChangeCommand,
		},
	},
}

func learnCodebaseCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	engine := learning.NewPatternLearningEngine(cfg)

	start := time.Now()
	patterns, err := engine.LearnFromCodebase(context.Background(), cfg.Project.Root)
	if err != nil {
		return fmt.Errorf("learning failed: %w", err)
	}
	elapsed := time.Since(start)

	if c.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(patterns)
	}

	fmt.Printf("Learned %d surviving patterns from %s (%.1fms)\n", len(patterns), cfg.Project.Root, float64(elapsed.Microseconds())/1000.0)
	for _, p := range patterns {
		fmt.Printf("  [%s] %s (freq=%d, confidence=%.2f)\n", p.PatternType, p.Description, p.Frequency, p.Confidence)
	}
	return nil
}

func learnChangesCommand(c *cli.Context) error {
	oldCode, err := os.ReadFile(c.String("old"))
	if err != nil {
		return fmt.Errorf("failed to read old revision: %w", err)
	}
	newCode, err := os.ReadFile(c.String("new"))
	if err != nil {
		return fmt.Errorf("failed to read new revision: %w", err)
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	engine := learning.NewPatternLearningEngine(cfg)
	patterns := engine.LearnFromChanges(string(oldCode), string(newCode), c.String("new"), c.String("language"))

	if c.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(patterns)
	}
	for _, p := range patterns {
		fmt.Printf("  [%s] %s (confidence=%.2f)\n", p.PatternType, p.Description, p.Confidence)
	}
	return nil
}

func readPayload(c *cli.Context) (string, error) {
	if path := c.String("file"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(content), nil
	}
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(content), nil
}

func learnAnalysisCommand(c *cli.Context) error {
	payload, err := readPayload(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	engine := learning.NewPatternLearningEngine(cfg)
	if !engine.LearnFromAnalysis(payload) {
		return errors.New("analysis payload was malformed")
	}
	fmt.Println("analysis payload ingested")
	return nil
}

func learnChangeCommand(c *cli.Context) error {
	payload, err := readPayload(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	engine := learning.NewPatternLearningEngine(cfg)
	if !engine.UpdateFromChange(payload) {
		return errors.New("change event was malformed")
	}
	fmt.Println("change event applied")
	return nil
}
