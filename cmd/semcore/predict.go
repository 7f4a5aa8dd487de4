package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pi22by7/semcore/internal/learning"
)

var predictCommand = &cli.Command{
	Name:  "predict",
	Usage: "Predict a suitable architecture approach for a problem description",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "json",
			Aliases: []string{"j"},
			Usage:   "Output as JSON",
		},
		&cli.StringFlag{
			Name:  "context",
			Usage: "Optional problem-context JSON ({scale,domain,team_size,...})",
		},
		&cli.IntFlag{
			Name:  "alternatives",
			Usage: "Also show the top-N alternative approaches",
		},
	},
	Action: predictCommandAction,
}

func predictCommandAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: semcore predict <problem description>")
	}
	description := c.Args().First()

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	engine := learning.NewPatternLearningEngine(cfg)
	prediction := engine.PredictApproach(description, c.String("context"))

	if n := c.Int("alternatives"); n > 0 {
		alternatives := engine.GenerateAlternatives(description, c.String("context"), n)
		if c.Bool("json") {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(map[string]interface{}{
				"best":         prediction,
				"alternatives": alternatives,
			})
		}
		fmt.Printf("Best approach: %s (confidence=%.2f, complexity=%s)\n", prediction.Approach, prediction.Confidence, prediction.Complexity)
		fmt.Printf("  %s\n", prediction.Reasoning)
		fmt.Printf("\nAlternatives:\n")
		for _, alt := range alternatives {
			fmt.Printf("  %s (confidence=%.2f)\n", alt.Approach, alt.Confidence)
		}
		return nil
	}

	if c.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(prediction)
	}
	fmt.Printf("Approach: %s\n", prediction.Approach)
	fmt.Printf("Confidence: %.2f\n", prediction.Confidence)
	fmt.Printf("Complexity: %s\n", prediction.Complexity)
	fmt.Printf("Reasoning: %s\n", prediction.Reasoning)
	if len(prediction.Patterns) > 0 {
		fmt.Printf("Recommended patterns: %v\n", prediction.Patterns)
	}
	return nil
}
