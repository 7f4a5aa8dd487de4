// Package config decides which files the engine is willing to analyze and
// how those files map onto languages. Grouped sub-structs for
// Index/Performance/FeatureFlags, a documented set of defaults, and an
// optional KDL override file.
package config

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pi22by7/semcore/internal/types"
)

// Config is the admission and resource-bound policy for one analysis run.
type Config struct {
	Project      Project
	Index        Index
	Performance  Performance
	FeatureFlags FeatureFlags

	// Extra glob exclusions layered over the mandatory substring/extension
	// checks (doublestar-matched).
	Exclude []string
}

// Project identifies the root being analyzed.
type Project struct {
	Root string
	Name string
}

// Index bounds the file walk.
type Index struct {
	MaxFileSize int64
	MaxFiles    int
	// IgnoredDirSubstrings: a file is rejected if any path component
	// contains one of these substrings.
	IgnoredDirSubstrings []string
	// IgnoredFilePatterns: a file is rejected if its base name matches one
	// of these suffix/substring patterns (minified, lock files, source
	// maps, dotfiles).
	IgnoredFilePatterns []string
	// Extensions maps a file extension (without the leading dot) to the
	// language name extractors key off of.
	Extensions map[string]string
}

// Performance tunes the bounded-concurrency file walk.
type Performance struct {
	ParallelFileWorkers int           // 0 = auto-detect (GOMAXPROCS)
	PerFileTimeoutSec   int           // per-file parse timeout
	GlobalTimeoutSec    int           // whole-operation timeout
	MaxWalkDepth         int          // bounded directory-walk depth
}

// FeatureFlags toggles optional, additive behavior left implementation-defined.
type FeatureFlags struct {
	EnableRelationshipAnalysis bool
	EnableRawCodePatternScan   bool
	EnableIncrementalLearning  bool
}

// DefaultIgnoredDirSubstrings is the closed list of directory-name
// substrings that keep generated and vendored trees out of analysis.
var DefaultIgnoredDirSubstrings = []string{
	"node_modules", ".git", "dist", "build", "target", "__pycache__",
	"venv", ".next", "coverage", "vendor", "bin", "obj", "tmp", "cache",
	"logs", "bower_components",
}

// DefaultIgnoredFilePatterns rejects minified bundles, lock files, source
// maps and dotfiles.
var DefaultIgnoredFilePatterns = []string{
	".min.js", ".min.css", ".bundle.js", ".chunk.js",
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "Cargo.lock",
	"go.sum", "composer.lock",
	".map",
}

// DefaultExtensions is the authoritative extension->language table.
var DefaultExtensions = map[string]string{
	"ts": "typescript", "tsx": "typescript",
	"js": "javascript", "jsx": "javascript",
	"py": "python",
	"rs": "rust",
	"go": "go",
	"java": "java",
	"c": "c",
	"cpp": "cpp", "cc": "cpp", "cxx": "cpp",
	"cs": "csharp",
	"sql": "sql",
	"svelte": "svelte",
	"php": "php", "phtml": "php", "inc": "php",
	"vue": "javascript",
}

// DefaultExcludeGlobs is the supplementary opt-in glob exclusion list
// (doublestar-matched).
var DefaultExcludeGlobs = []string{
	"**/*.min.js", "**/*.min.css", "**/*.bundle.js", "**/*.chunk.js",
	"**/vendor/**", "**/node_modules/**", "**/dist/**", "**/build/**",
}

// Default returns the documented default configuration (1 MiB max file
// size, 1000 max files).
func Default() *Config {
	return &Config{
		Index: Index{
			MaxFileSize:          types.DefaultMaxFileSize,
			MaxFiles:             types.DefaultMaxFiles,
			IgnoredDirSubstrings: append([]string(nil), DefaultIgnoredDirSubstrings...),
			IgnoredFilePatterns:  append([]string(nil), DefaultIgnoredFilePatterns...),
			Extensions:           cloneExtensions(DefaultExtensions),
		},
		Performance: Performance{
			PerFileTimeoutSec: 30,
			GlobalTimeoutSec:  60,
			MaxWalkDepth:      5,
		},
		FeatureFlags: FeatureFlags{
			EnableRelationshipAnalysis: true,
			EnableRawCodePatternScan:   true,
			EnableIncrementalLearning:  true,
		},
		Exclude: append([]string(nil), DefaultExcludeGlobs...),
	}
}

func cloneExtensions(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// LanguageFor returns the language for a file path's extension and whether
// that extension is supported.
func (c *Config) LanguageFor(path string) (string, bool) {
	ext := extensionOf(path)
	lang, ok := c.Index.Extensions[ext]
	return lang, ok
}

func extensionOf(path string) string {
	base := baseName(path)
	idx := strings.LastIndexByte(base, '.')
	if idx < 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}

func baseName(path string) string {
	idx := strings.LastIndexAny(path, "/\\")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

// Admit reports whether path is admitted for analysis given its extension,
// ignored-path rules and size.
func (c *Config) Admit(path string, size int64) bool {
	if _, ok := c.LanguageFor(path); !ok {
		return false
	}
	if size > c.Index.MaxFileSize {
		return false
	}
	normalized := strings.ReplaceAll(path, "\\", "/")
	for _, sub := range c.Index.IgnoredDirSubstrings {
		if strings.Contains(normalized, sub) {
			return false
		}
	}
	base := baseName(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	for _, pat := range c.Index.IgnoredFilePatterns {
		if strings.Contains(base, pat) {
			return false
		}
	}
	for _, glob := range c.Exclude {
		if ok, _ := doublestar.Match(glob, normalized); ok {
			return false
		}
	}
	return true
}
