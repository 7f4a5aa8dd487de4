package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pi22by7/semcore/internal/learning"
	"github.com/pi22by7/semcore/internal/semantic"
)

var patternsCommand = &cli.Command{
	Name:  "patterns",
	Usage: "Analyze naming/structural/implementation patterns and violations for a codebase",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "json",
			Aliases: []string{"j"},
			Usage:   "Output as JSON",
		},
	},
	Action: patternsCommandAction,
}

func patternsCommandAction(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	analyzer := semantic.NewSemanticAnalyzer(cfg)
	result, err := analyzer.AnalyzeCodebase(context.Background(), cfg.Project.Root)
	if err != nil {
		return fmt.Errorf("concept extraction failed: %w", err)
	}

	engine := learning.NewPatternLearningEngine(cfg)
	analysis := engine.AnalyzePatterns(result.Concepts)

	if c.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(analysis)
	}

	fmt.Printf("Naming patterns: %d\n", len(analysis.NamingPatterns))
	for _, p := range analysis.NamingPatterns {
		fmt.Printf("  %s (confidence=%.2f, freq=%d)\n", p.Description, p.Confidence, p.Frequency)
	}
	fmt.Printf("Structural patterns: %d\n", len(analysis.StructuralPatterns))
	for _, p := range analysis.StructuralPatterns {
		fmt.Printf("  %s (confidence=%.2f, freq=%d)\n", p.Description, p.Confidence, p.Frequency)
	}
	fmt.Printf("Implementation patterns: %d\n", len(analysis.ImplementationPatterns))
	for _, p := range analysis.ImplementationPatterns {
		fmt.Printf("  %s (confidence=%.2f, freq=%d)\n", p.Description, p.Confidence, p.Frequency)
	}
	if len(analysis.Violations) > 0 {
		fmt.Printf("\nViolations:\n")
		for _, v := range analysis.Violations {
			fmt.Printf("  %s: %s\n", v.Location, v.Message)
		}
	}
	if len(analysis.Recommendations) > 0 {
		fmt.Printf("\nRecommendations:\n")
		for _, r := range analysis.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
	return nil
}
