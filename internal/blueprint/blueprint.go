// Package blueprint maps a codebase's shape onto entry points, key
// directories and named features, using a framework list for
// entry-point hints.
package blueprint

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pi22by7/semcore/internal/types"
)

var skipDirs = map[string]bool{
	"node_modules": true, ".git": true, "dist": true, "build": true,
	".next": true, "__pycache__": true, "venv": true, "target": true,
}

var sourceExtensions = map[string]bool{
	"ts": true, "tsx": true, "js": true, "jsx": true, "py": true,
	"rs": true, "go": true, "java": true, "c": true, "cpp": true, "cs": true,
}

type entryCandidate struct {
	path      string
	entryType types.EntryPointType
	framework string
}

// BlueprintAnalyzer infers entry points, key directories and feature
// groupings from a project tree.
type BlueprintAnalyzer struct{}

func NewBlueprintAnalyzer() *BlueprintAnalyzer { return &BlueprintAnalyzer{} }

// DetectEntryPoints probes a fixed set of conventional paths per
// framework hint present in frameworks, returning one EntryPoint per
// path that exists under root.
func (b *BlueprintAnalyzer) DetectEntryPoints(root string, frameworks []types.FrameworkInfo) ([]types.EntryPoint, error) {
	names := make([]string, len(frameworks))
	for i, f := range frameworks {
		names[i] = strings.ToLower(f.Name)
	}
	has := func(substrs ...string) bool {
		for _, n := range names {
			for _, s := range substrs {
				if strings.Contains(n, s) {
					return true
				}
			}
		}
		return false
	}

	var candidates []entryCandidate

	if has("react", "next") {
		for _, p := range []string{
			"src/index.tsx", "src/index.jsx", "src/App.tsx", "src/App.jsx",
			"pages/_app.tsx", "pages/_app.js", "app/page.tsx", "app/layout.tsx",
		} {
			candidates = append(candidates, entryCandidate{p, types.EntryWeb, "react"})
		}
	}

	if has("express", "node") {
		for _, p := range []string{
			"server.js", "app.js", "index.js", "src/server.ts", "src/app.ts",
			"src/index.ts", "src/main.ts",
		} {
			candidates = append(candidates, entryCandidate{p, types.EntryAPI, "express"})
		}
	}

	if has("python", "fastapi", "flask", "django") {
		framework := "python"
		switch {
		case has("fastapi"):
			framework = "fastapi"
		case has("flask"):
			framework = "flask"
		case has("django"):
			framework = "django"
		}
		for _, p := range []string{
			"main.py", "app.py", "server.py", "api/main.py", "src/main.py", "manage.py",
		} {
			candidates = append(candidates, entryCandidate{p, types.EntryAPI, framework})
		}
	}

	if has("rust") {
		for _, p := range []string{"src/main.rs", "src/lib.rs"} {
			entryType := types.EntryLibrary
			if strings.Contains(p, "main") {
				entryType = types.EntryCLI
			}
			candidates = append(candidates, entryCandidate{p, entryType, "rust"})
		}
	}

	if has("go") {
		for _, p := range []string{"main.go", "cmd/main.go", "cmd/server/main.go"} {
			candidates = append(candidates, entryCandidate{p, types.EntryAPI, "go"})
		}
	}

	for _, p := range []string{"cli.js", "bin/cli.js", "src/cli.ts", "src/cli.js"} {
		candidates = append(candidates, entryCandidate{p, types.EntryCLI, ""})
	}

	var out []types.EntryPoint
	for _, c := range candidates {
		if _, err := os.Stat(filepath.Join(root, c.path)); err != nil {
			continue
		}
		confidence := entryConfidence(c.entryType)
		out = append(out, types.EntryPoint{
			FilePath:   c.path,
			EntryType:  c.entryType,
			Framework:  c.framework,
			Confidence: confidence,
		})
	}
	return out, nil
}

func entryConfidence(t types.EntryPointType) float64 {
	switch t {
	case types.EntryLibrary:
		return 0.95
	case types.EntryWeb:
		return 0.9
	case types.EntryAPI:
		return 0.85
	case types.EntryCLI:
		return 0.8
	default:
		return 0.8
	}
}

var keyDirectoryPatterns = []struct{ pattern, dirType string }{
	{"src/components", "components"}, {"src/utils", "utils"},
	{"src/services", "services"}, {"src/api", "api"}, {"src/auth", "auth"},
	{"src/models", "models"}, {"src/views", "views"}, {"src/pages", "pages"},
	{"src/lib", "library"}, {"lib", "library"}, {"utils", "utils"},
	{"middleware", "middleware"}, {"routes", "routes"}, {"controllers", "controllers"},
}

// MapKeyDirectories probes a fixed (pattern, type) list, reporting a
// KeyDirectory for each pattern that exists, with a depth-5-bounded file
// count.
func (b *BlueprintAnalyzer) MapKeyDirectories(root string) ([]types.KeyDirectory, error) {
	var out []types.KeyDirectory
	for _, kd := range keyDirectoryPatterns {
		full := filepath.Join(root, kd.pattern)
		info, err := os.Stat(full)
		if err != nil || !info.IsDir() {
			continue
		}
		count, err := countFiles(full, 5, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, types.KeyDirectory{Path: kd.pattern, Type: kd.dirType, FileCount: count})
	}
	return out, nil
}

func countFiles(dir string, maxDepth, depth int) (int, error) {
	if depth >= maxDepth {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range entries {
		if skipDirs[e.Name()] {
			continue
		}
		full := filepath.Join(dir, e.Name())
		if e.IsDir() {
			sub, err := countFiles(full, maxDepth, depth+1)
			if err != nil {
				return 0, err
			}
			count += sub
		} else {
			count++
		}
	}
	return count, nil
}

var featurePatterns = []struct {
	feature string
	dirs    []string
}{
	{"authentication", []string{"auth", "authentication"}},
	{"api", []string{"api", "routes", "endpoints", "controllers"}},
	{"database", []string{"db", "database", "models", "schemas", "migrations", "storage"}},
	{"ui-components", []string{"components", "ui"}},
	{"views", []string{"views", "pages", "screens"}},
	{"services", []string{"services", "api-clients"}},
	{"utilities", []string{"utils", "helpers", "lib"}},
	{"testing", []string{"tests", "__tests__", "test"}},
	{"configuration", []string{"config", ".config", "settings"}},
	{"middleware", []string{"middleware", "middlewares"}},
	{"language-support", []string{"parsing", "parser", "ast", "tree-sitter", "compiler"}},
	{"rust-core", []string{"rust-core", "native", "bindings"}},
	{"mcp-server", []string{"mcp-server", "server", "mcp"}},
	{"cli", []string{"cli", "bin", "commands"}},
}

// BuildFeatureMap assembles, for each named feature, the union of files
// found under its candidate directories (probed at project root, under
// src/, and under rust-core/ and rust-core/src/ for mono-repo layouts),
// splitting the sorted/deduped result evenly into primary and related
// files.
func (b *BlueprintAnalyzer) BuildFeatureMap(root string) ([]types.FeatureMap, error) {
	var out []types.FeatureMap
	for _, fp := range featurePatterns {
		var files []string
		for _, dir := range fp.dirs {
			for _, prefix := range []string{"src", "", "rust-core/src", "rust-core"} {
				candidate := dir
				if prefix != "" {
					candidate = filepath.Join(prefix, dir)
				}
				full := filepath.Join(root, candidate)
				info, err := os.Stat(full)
				if err != nil || !info.IsDir() {
					continue
				}
				found, err := collectSourceFiles(full, root, 5, 0)
				if err != nil {
					return nil, err
				}
				files = append(files, found...)
			}
		}
		if len(files) == 0 {
			continue
		}
		files = dedupSorted(files)
		mid := (len(files) + 1) / 2
		primary := append([]string(nil), files[:mid]...)
		var related []string
		if mid < len(files) {
			related = append([]string(nil), files[mid:]...)
		}
		out = append(out, types.FeatureMap{Feature: fp.feature, PrimaryFiles: primary, RelatedFiles: related})
	}
	return out, nil
}

func collectSourceFiles(dir, root string, maxDepth, depth int) ([]string, error) {
	if depth >= maxDepth {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if skipDirs[e.Name()] {
			continue
		}
		full := filepath.Join(dir, e.Name())
		if e.IsDir() {
			sub, err := collectSourceFiles(full, root, maxDepth, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(e.Name()), "."))
		if !sourceExtensions[ext] {
			continue
		}
		rel, err := filepath.Rel(root, full)
		if err != nil {
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out, nil
}

func dedupSorted(files []string) []string {
	sort.Strings(files)
	out := files[:0:0]
	var prev string
	for i, f := range files {
		if i == 0 || f != prev {
			out = append(out, f)
		}
		prev = f
	}
	return out
}
