package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pi22by7/semcore/internal/semantic"
)

var analyzeCommand = &cli.Command{
	Name:    "analyze",
	Aliases: []string{"a"},
	Usage:   "Extract semantic concepts and aggregate complexity for a codebase or single file",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "json",
			Aliases: []string{"j"},
			Usage:   "Output as JSON",
		},
		&cli.StringFlag{
			Name:  "file",
			Usage: "Analyze a single file's content instead of walking root",
		},
	},
	Action: analyzeCommandAction,
}

func analyzeCommandAction(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	analyzer := semantic.NewSemanticAnalyzer(cfg)

	if file := c.String("file"); file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		concepts := analyzer.AnalyzeFileContent(context.Background(), file, string(content))
		if c.Bool("json") {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(concepts)
		}
		for _, concept := range concepts {
			fmt.Printf("%s:%d: %s %s\n", concept.FilePath, concept.LineRange.Start, concept.ConceptType, concept.Name)
		}
		return nil
	}

	start := time.Now()
	result, err := analyzer.AnalyzeCodebase(context.Background(), cfg.Project.Root)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	elapsed := time.Since(start)

	if c.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	fmt.Printf("Codebase analysis for %s (%.1fms)\n\n", cfg.Project.Root, float64(elapsed.Microseconds())/1000.0)
	fmt.Printf("Languages:  %v\n", result.Languages)
	fmt.Printf("Frameworks: %v\n", result.Frameworks)
	fmt.Printf("Concepts:   %d\n", len(result.Concepts))
	fmt.Printf("Complexity: cyclomatic=%.1f, cognitive=%.1f, max nesting=%d\n",
		result.Complexity.CyclomaticComplexity, result.Complexity.CognitiveComplexity, result.Complexity.MaxNestingDepth)
	return nil
}

var relationshipsCommand = &cli.Command{
	Name:  "relationships",
	Usage: "Extract concepts and learn relationships between them",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "json",
			Aliases: []string{"j"},
			Usage:   "Output as JSON",
		},
		&cli.StringFlag{
			Name:  "concept",
			Usage: "Show relationship edges for a single concept id after learning",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfigWithOverrides(c)
		if err != nil {
			return err
		}
		analyzer := semantic.NewSemanticAnalyzer(cfg)

		concepts, err := analyzer.LearnFromCodebase(context.Background(), cfg.Project.Root)
		if err != nil {
			return fmt.Errorf("relationship learning failed: %w", err)
		}

		if id := c.String("concept"); id != "" {
			edges := analyzer.GetConceptRelationships(id)
			if len(edges) == 0 {
				return errors.New("no relationships recorded for that concept id")
			}
			for _, label := range edges {
				fmt.Println(label)
			}
			return nil
		}

		if c.Bool("json") {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(concepts)
		}

		for _, concept := range concepts {
			if len(concept.Relationships) == 0 {
				continue
			}
			fmt.Printf("%s (%s)\n", concept.Name, concept.ID)
			for label, target := range concept.Relationships {
				fmt.Printf("  %s -> %s\n", label, target)
			}
		}
		return nil
	},
}
