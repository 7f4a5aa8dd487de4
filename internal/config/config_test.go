package config

import "testing"

func TestAdmitExtensionAndSize(t *testing.T) {
	cfg := Default()

	if !cfg.Admit("src/main.go", 100) {
		t.Fatal("expected main.go to be admitted")
	}
	if cfg.Admit("README.md", 100) {
		t.Fatal("unsupported extension must be rejected")
	}
	if cfg.Admit("src/main.go", cfg.Index.MaxFileSize+1) {
		t.Fatal("oversized file must be rejected")
	}
}

func TestAdmitIgnoredDirectories(t *testing.T) {
	cfg := Default()
	paths := []string{
		"node_modules/react/index.js",
		"project/.git/hooks/pre-commit.go",
		"vendor/lib/util.go",
		"build/out.go",
	}
	for _, p := range paths {
		if cfg.Admit(p, 10) {
			t.Fatalf("expected %s to be rejected by ignored-dir rule", p)
		}
	}
}

func TestAdmitIgnoredFilePatterns(t *testing.T) {
	cfg := Default()
	if cfg.Admit("dist/app.min.js", 10) {
		t.Fatal("minified file must be rejected")
	}
	if cfg.Admit(".eslintrc.js", 10) {
		t.Fatal("dotfile must be rejected")
	}
}

func TestLanguageMapping(t *testing.T) {
	cfg := Default()
	cases := map[string]string{
		"a.ts": "typescript", "a.tsx": "typescript",
		"a.js": "javascript", "a.jsx": "javascript",
		"a.py": "python", "a.rs": "rust", "a.go": "go",
		"a.java": "java", "a.c": "c", "a.cpp": "cpp",
		"a.cc": "cpp", "a.cxx": "cpp", "a.cs": "csharp",
		"a.sql": "sql", "a.svelte": "svelte",
		"a.php": "php", "a.phtml": "php", "a.inc": "php",
		"a.vue": "javascript",
	}
	for path, want := range cases {
		got, ok := cfg.LanguageFor(path)
		if !ok || got != want {
			t.Errorf("LanguageFor(%s) = %s,%v want %s", path, got, ok, want)
		}
	}
}

func TestAdmitExcludeGlob(t *testing.T) {
	cfg := Default()
	cfg.Exclude = append(cfg.Exclude, "**/generated/**")
	// "src/generated/foo.go" passes every substring, extension and size
	// check, so only the added glob can reject it.
	if cfg.Admit("src/generated/foo.go", 10) {
		t.Fatal("expected a path matching an Exclude glob to be rejected")
	}
}
