// Package framework scans a repository for the package manifests,
// config files and source-extension census that betray which
// frameworks and libraries a codebase is built on.
package framework

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pi22by7/semcore/internal/config"
	"github.com/pi22by7/semcore/internal/types"
)

const manifestScanDepth = 3

var manifestFiles = map[string]bool{
	"package.json": true, "Cargo.toml": true, "requirements.txt": true,
	"Pipfile": true, "pom.xml": true, "build.gradle": true, "go.mod": true,
	"composer.json": true, "Gemfile": true, "mix.exs": true,
}

var configFileFrameworks = map[string]string{
	"webpack.config.js":  "Webpack",
	"vite.config.js":     "Vite",
	"next.config.js":     "Next.js",
	"nuxt.config.js":     "Nuxt.js",
	"vue.config.js":      "Vue.js",
	"angular.json":       "Angular",
	"tsconfig.json":      "TypeScript",
	"tailwind.config.js": "Tailwind CSS",
	"jest.config.js":     "Jest",
	"vitest.config.js":   "Vitest",
	"svelte.config.js":   "Svelte",
}

// evidence tracks, per framework name, the set of evidence strings found
// and the best version string seen so far.
type evidence struct {
	items   map[string]bool
	version string
}

// FrameworkDetector walks a project tree looking for signs of the
// frameworks and libraries it depends on.
type FrameworkDetector struct{}

func NewFrameworkDetector() *FrameworkDetector { return &FrameworkDetector{} }

// DetectFrameworks scans path (manifests and config files to depth 3, a
// whole-tree extension census) and returns every framework whose
// accumulated confidence exceeds 0.3, sorted by descending confidence.
func (d *FrameworkDetector) DetectFrameworks(path string) ([]types.FrameworkInfo, error) {
	acc := make(map[string]*evidence)

	if err := checkManifestFiles(path, acc); err != nil {
		return nil, err
	}
	if err := checkConfigFiles(path, acc); err != nil {
		return nil, err
	}
	if err := inferFromProjectStructure(path, acc); err != nil {
		return nil, err
	}

	var out []types.FrameworkInfo
	for name, ev := range acc {
		conf := calculateConfidence(ev.items)
		if conf <= 0.3 {
			continue
		}
		out = append(out, types.FrameworkInfo{
			Name:       name,
			Confidence: conf,
			Version:    ev.version,
			Evidence:   sortedKeys(ev.items),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func record(acc map[string]*evidence, name, item string) *evidence {
	e, ok := acc[name]
	if !ok {
		e = &evidence{items: make(map[string]bool)}
		acc[name] = e
	}
	e.items[item] = true
	return e
}

func walkLimited(root string, maxDepth int, fn func(path string, rel string, depth int, info os.FileInfo) error) error {
	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
		if info.IsDir() {
			if depth > maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if depth > maxDepth {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		return fn(path, rel, depth, info)
	})
}

func checkManifestFiles(root string, acc map[string]*evidence) error {
	return walkLimited(root, manifestScanDepth, func(path, _ string, _ int, info os.FileInfo) error {
		name := info.Name()
		if !manifestFiles[name] {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		analyzeManifest(name, string(content), acc)
		return nil
	})
}

func analyzeManifest(fileName, content string, acc map[string]*evidence) {
	switch fileName {
	case "package.json":
		parsePackageJSON(content, acc)
	case "Cargo.toml":
		parseCargoToml(content, acc)
	case "requirements.txt", "Pipfile":
		parseRequirements(content, acc)
	case "pom.xml", "build.gradle":
		parseJavaManifest(content, acc)
	case "go.mod":
		parseGoMod(content, acc)
	case "composer.json":
		parseComposerJSON(content, acc)
	case "Gemfile":
		parseGemfile(content, acc)
	}
}

var jsManifestPatterns = []struct {
	name     string
	patterns []string
}{
	{"React", []string{`"react":`, `"@types/react":`}},
	{"Vue.js", []string{`"vue":`, `"@vue/`}},
	{"Angular", []string{`"@angular/`}},
	{"Express", []string{`"express":`, `"@types/express":`}},
	{"Next.js", []string{`"next":`, `"@next/`}},
	{"Svelte", []string{`"svelte":`, `"@svelte/`}},
	{"Webpack", []string{`"webpack":`}},
	{"Vite", []string{`"vite":`, `"@vitejs/`}},
	{"Jest", []string{`"jest":`, `"@jest/`}},
	{"TypeScript", []string{`"typescript":`}},
	{"Tailwind CSS", []string{`"tailwindcss":`, `"@tailwindcss/`}},
	{"Material-UI", []string{`"@mui/`, `"@material-ui/`}},
	{"Lodash", []string{`"lodash":`, `"@types/lodash":`}},
}

func parsePackageJSON(content string, acc map[string]*evidence) {
	for _, fw := range jsManifestPatterns {
		for _, pat := range fw.patterns {
			if !strings.Contains(content, pat) {
				continue
			}
			e := record(acc, fw.name, "manifest:package.json dependency: "+pat)
			if v := versionAfter(content, pat, `: "`, `"`); v != "" && v != "latest" {
				e.version = v
			}
		}
	}
}

var cargoManifestPatterns = []struct {
	name     string
	patterns []string
}{
	{"Tokio", []string{"tokio =", "tokio."}},
	{"Serde", []string{"serde =", "serde_"}},
	{"Actix Web", []string{"actix-web =", "actix_"}},
	{"Rocket", []string{"rocket =", "rocket_"}},
	{"Diesel", []string{"diesel =", "diesel_"}},
	{"SQLx", []string{"sqlx =", "sqlx-"}},
	{"Clap", []string{"clap =", "structopt ="}},
	{"Reqwest", []string{"reqwest ="}},
	{"Tree-sitter", []string{"tree-sitter", "tree_sitter"}},
}

// parseCargoToml decodes the dependency tables with go-toml and falls
// back to plain substring matching for any shape the decoder can't
// make sense of (Cargo.toml dependencies can be bare strings, inline
// tables, or full tables).
func parseCargoToml(content string, acc map[string]*evidence) {
	var doc struct {
		Dependencies map[string]any `toml:"dependencies"`
	}
	if err := tomlUnmarshal([]byte(content), &doc); err == nil {
		for dep, spec := range doc.Dependencies {
			name := cargoDepFrameworkName(dep)
			if name == "" {
				continue
			}
			e := record(acc, name, "manifest:Cargo.toml dependency: "+dep)
			switch v := spec.(type) {
			case string:
				e.version = v
			case map[string]any:
				if ver, ok := v["version"].(string); ok {
					e.version = ver
				}
			}
		}
	}

	for _, fw := range cargoManifestPatterns {
		for _, pat := range fw.patterns {
			if !strings.Contains(content, pat) {
				continue
			}
			e := record(acc, fw.name, "manifest:Cargo.toml dependency: "+pat)
			if v := versionAfter(content, pat, ` = "`, `"`); v != "" {
				e.version = v
			}
		}
	}
}

func cargoDepFrameworkName(dep string) string {
	for _, fw := range cargoManifestPatterns {
		for _, pat := range fw.patterns {
			trimmed := strings.TrimRight(strings.TrimSpace(pat), "=. ")
			if dep == trimmed || strings.HasPrefix(dep, trimmed) {
				return fw.name
			}
		}
	}
	return ""
}

var requirementsPatterns = []struct{ name, pattern string }{
	{"Django", "django"}, {"Flask", "flask"}, {"FastAPI", "fastapi"},
	{"NumPy", "numpy"}, {"Pandas", "pandas"}, {"Matplotlib", "matplotlib"},
	{"SQLAlchemy", "sqlalchemy"}, {"Requests", "requests"},
	{"PyTorch", "torch"}, {"TensorFlow", "tensorflow"},
}

func parseRequirements(content string, acc map[string]*evidence) {
	lower := strings.ToLower(content)
	for _, fw := range requirementsPatterns {
		if !strings.Contains(lower, fw.pattern) {
			continue
		}
		e := record(acc, fw.name, "manifest:requirements.txt dependency: "+fw.pattern)
		for _, line := range strings.Split(content, "\n") {
			ll := strings.ToLower(line)
			if !strings.Contains(ll, fw.pattern) {
				continue
			}
			if idx := strings.Index(line, "=="); idx >= 0 {
				e.version = strings.TrimSpace(line[idx+2:])
			} else if idx := strings.Index(line, ">="); idx >= 0 {
				e.version = ">=" + strings.TrimSpace(line[idx+2:])
			}
		}
	}
}

var javaManifestPatterns = []struct {
	name     string
	patterns []string
}{
	{"Spring Framework", []string{"<groupId>org.springframework", "<artifactId>spring-", "org.springframework"}},
	{"Spring Boot", []string{"spring-boot-starter", "spring-boot-parent", "org.springframework.boot"}},
	{"Hibernate", []string{"<artifactId>hibernate", "hibernate"}},
	{"JUnit", []string{"<artifactId>junit", "<groupId>org.junit", "junit"}},
	{"Apache Commons", []string{"<groupId>org.apache.commons", "org.apache.commons"}},
	{"Jackson", []string{"<groupId>com.fasterxml.jackson", "com.fasterxml.jackson"}},
}

func parseJavaManifest(content string, acc map[string]*evidence) {
	for _, fw := range javaManifestPatterns {
		for _, pat := range fw.patterns {
			if strings.Contains(content, pat) {
				record(acc, fw.name, "manifest:build manifest dependency: "+pat)
			}
		}
	}
}

var goModPatterns = []struct{ name, pattern string }{
	{"Gin", "github.com/gin-gonic/gin"},
	{"Echo", "github.com/labstack/echo"},
	{"Fiber", "github.com/gofiber/fiber"},
	{"GORM", "gorm.io/gorm"},
	{"Cobra", "github.com/spf13/cobra"},
	{"Viper", "github.com/spf13/viper"},
}

func parseGoMod(content string, acc map[string]*evidence) {
	for _, fw := range goModPatterns {
		if strings.Contains(content, fw.pattern) {
			record(acc, fw.name, "manifest:go.mod dependency: "+fw.pattern)
		}
	}
}

var composerPatterns = []struct{ name, pattern string }{
	{"Laravel", `"laravel/framework"`},
	{"Symfony", `"symfony/`},
	{"PHPUnit", `"phpunit/phpunit"`},
}

func parseComposerJSON(content string, acc map[string]*evidence) {
	for _, fw := range composerPatterns {
		if !strings.Contains(content, fw.pattern) {
			continue
		}
		e := record(acc, fw.name, "manifest:composer.json dependency: "+fw.pattern)
		if v := versionAfter(content, fw.pattern, `: "`, `"`); v != "" {
			e.version = v
		}
	}
}

var gemfilePatterns = []struct{ name, pattern string }{
	{"Ruby on Rails", "gem 'rails'"}, {"Ruby on Rails", `gem "rails"`},
	{"Sinatra", "gem 'sinatra'"}, {"Sinatra", `gem "sinatra"`},
}

func parseGemfile(content string, acc map[string]*evidence) {
	for _, fw := range gemfilePatterns {
		if strings.Contains(content, fw.pattern) {
			record(acc, fw.name, "manifest:Gemfile dependency: "+fw.pattern)
		}
	}
}

func versionAfter(content, pattern, sep, terminator string) string {
	start := strings.Index(content, pattern)
	if start < 0 {
		return ""
	}
	rest := content[start:]
	sepIdx := strings.Index(rest, sep)
	if sepIdx < 0 {
		return ""
	}
	rest = rest[sepIdx+len(sep):]
	end := strings.Index(rest, terminator)
	if end < 0 {
		return ""
	}
	return rest[:end]
}

func checkConfigFiles(root string, acc map[string]*evidence) error {
	return walkLimited(root, manifestScanDepth, func(_, _ string, _ int, info os.FileInfo) error {
		if fw, ok := configFileFrameworks[info.Name()]; ok {
			record(acc, fw, "config:Configuration file: "+info.Name())
		}
		return nil
	})
}

var extensionLanguages = map[string]string{
	"rs": "Rust", "ts": "TypeScript", "tsx": "TypeScript",
	"js": "JavaScript", "jsx": "JavaScript", "py": "Python",
	"java": "Java", "go": "Go",
}

func inferFromProjectStructure(root string, acc map[string]*evidence) error {
	counts := make(map[string]int)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			name := info.Name()
			if name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			for _, sub := range config.DefaultIgnoredDirSubstrings {
				if strings.Contains(name, sub) {
					return filepath.SkipDir
				}
			}
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if ext != "" {
			counts[ext]++
		}
		return nil
	})
	if err != nil {
		return err
	}
	for ext, count := range counts {
		if count < 5 {
			continue
		}
		lang, ok := extensionLanguages[ext]
		if !ok {
			continue
		}
		record(acc, lang, "structure:Project structure: "+strconv.Itoa(count)+" "+lang+" files")
	}
	return nil
}

// calculateConfidence sums a 0.2-per-evidence-item base (capped at 1.0)
// with category boosts: +0.3 per manifest item, +0.2 per config-file
// item, +0.2 per project-structure item, +0.1 per source-usage item.
func calculateConfidence(items map[string]bool) float64 {
	base := 0.2 * float64(len(items))
	if base > 1.0 {
		base = 1.0
	}
	boosted := base
	for item := range items {
		switch {
		case strings.HasPrefix(item, "manifest:"):
			boosted += 0.3
		case strings.HasPrefix(item, "config:"):
			boosted += 0.2
		case strings.HasPrefix(item, "structure:"):
			boosted += 0.2
		case strings.HasPrefix(item, "source:"):
			boosted += 0.1
		}
	}
	if boosted > 1.0 {
		boosted = 1.0
	}
	return boosted
}
