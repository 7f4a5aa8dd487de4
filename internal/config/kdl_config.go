package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL optionally overrides Default() from a ".semcore.kdl" file in
// projectRoot. It returns (nil, nil) when no such file exists — callers
// should fall back to Default() in that case. This is purely additive: the
// engine is fully usable with Default() alone.
func LoadKDL(projectRoot string) (*Config, error) {
	path := filepath.Join(projectRoot, ".semcore.kdl")
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read .semcore.kdl: %w", err)
	}

	cfg := Default()
	cfg.Project.Root = projectRoot

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("parse .semcore.kdl: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "root":
					if s, ok := firstStringArg(cn); ok {
						cfg.Project.Root = s
					}
				case "name":
					if s, ok := firstStringArg(cn); ok {
						cfg.Project.Name = s
					}
				}
			}
		case "index":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Index.MaxFileSize = int64(v)
					}
				case "max_files":
					if v, ok := firstIntArg(cn); ok {
						cfg.Index.MaxFiles = v
					}
				}
			}
		case "exclude":
			cfg.Exclude = append(cfg.Exclude, collectStringArgs(n)...)
		case "feature-flags":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "relationship-analysis":
					if b, ok := firstBoolArg(cn); ok {
						cfg.FeatureFlags.EnableRelationshipAnalysis = b
					}
				case "raw-code-pattern-scan":
					if b, ok := firstBoolArg(cn); ok {
						cfg.FeatureFlags.EnableRawCodePatternScan = b
					}
				case "incremental-learning":
					if b, ok := firstBoolArg(cn); ok {
						cfg.FeatureFlags.EnableIncrementalLearning = b
					}
				}
			}
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	s, ok := n.Arguments[0].Value.(string)
	return s, ok
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	b, ok := n.Arguments[0].Value.(bool)
	return b, ok
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	for _, cn := range n.Children {
		out = append(out, nodeName(cn))
	}
	return out
}
