package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pi22by7/semcore/internal/parser"
)

var parseCommand = &cli.Command{
	Name:  "parse",
	Usage: "Parse source, run AST queries, or compute complexity metrics for one file",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "json",
			Aliases: []string{"j"},
			Usage:   "Output as JSON",
		},
		&cli.StringFlag{
			Name:     "language",
			Aliases:  []string{"l"},
			Usage:    "Source language",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "file",
			Usage: "Source file to read (defaults to stdin)",
		},
		&cli.StringFlag{
			Name:  "query",
			Usage: "Tree-sitter node-kind selector to run against the parse tree",
		},
		&cli.BoolFlag{
			Name:  "complexity",
			Usage: "Report cyclomatic/function/class counts instead of the parse tree",
		},
	},
	Action: parseCommandAction,
}

func readSource(c *cli.Context) (string, error) {
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

func parseCommandAction(c *cli.Context) error {
	code, err := readSource(c)
	if err != nil {
		return err
	}
	language := c.String("language")
	manager := parser.NewManager()
	if !manager.Supports(language) {
		return fmt.Errorf("unsupported language: %s", language)
	}

	if c.Bool("complexity") {
		metrics, err := manager.AnalyzeComplexity(code, language)
		if err != nil {
			return fmt.Errorf("complexity analysis failed: %w", err)
		}
		if c.Bool("json") {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(metrics)
		}
		for name, value := range metrics {
			fmt.Printf("%s: %d\n", name, value)
		}
		return nil
	}

	if selector := c.String("query"); selector != "" {
		nodes, err := manager.QueryAST(code, language, selector)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		if c.Bool("json") {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(nodes)
		}
		for _, n := range nodes {
			fmt.Printf("%d:%d %s %q\n", n.StartLine, n.StartColumn, n.NodeType, n.Text)
		}
		return nil
	}

	result, err := manager.ParseCode(code, language)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if len(result.Errors) > 0 {
		return errors.New("parse produced error nodes: " + result.Errors[0])
	}
	if c.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}
	for _, s := range result.Symbols {
		fmt.Printf("%d:%d %s %s\n", s.Line, s.Column, s.SymbolType, s.Name)
	}
	return nil
}
