package framework

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestDetectFrameworks_ReactFromPackageJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{
		"dependencies": {
			"react": "^18.0.0",
			"@types/react": "^18.0.0"
		}
	}`)

	d := NewFrameworkDetector()
	frameworks, err := d.DetectFrameworks(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range frameworks {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "React")
	for _, f := range frameworks {
		if f.Name == "React" {
			assert.Equal(t, "^18.0.0", f.Version)
		}
	}
}

func TestDetectFrameworks_RustFromCargoToml(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", `[dependencies]
tokio = "1.0"
serde = { version = "1.0", features = ["derive"] }
`)

	d := NewFrameworkDetector()
	frameworks, err := d.DetectFrameworks(dir)
	require.NoError(t, err)

	var tokio, serde *float64
	for _, f := range frameworks {
		f := f
		switch f.Name {
		case "Tokio":
			tokio = &f.Confidence
		case "Serde":
			serde = &f.Confidence
		}
	}
	require.NotNil(t, tokio)
	require.NotNil(t, serde)
}

func TestDetectFrameworks_PythonFromRequirements(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "django==4.2.0\nflask>=2.0.0\nnumpy\n")

	d := NewFrameworkDetector()
	frameworks, err := d.DetectFrameworks(dir)
	require.NoError(t, err)

	var django *string
	for _, f := range frameworks {
		if f.Name == "Django" {
			v := f.Version
			django = &v
		}
	}
	require.NotNil(t, django)
	assert.Equal(t, "4.2.0", *django)
}

func TestDetectFrameworks_ConfigFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "webpack.config.js", "module.exports = {};")
	writeFile(t, dir, "tsconfig.json", "{}")

	d := NewFrameworkDetector()
	frameworks, err := d.DetectFrameworks(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range frameworks {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "Webpack")
	assert.Contains(t, names, "TypeScript")
}

func TestDetectFrameworks_ProjectStructureBoost(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 6; i++ {
		writeFile(t, dir, filepath.Join("src", "file"+string(rune('a'+i))+".go"), "package src\n")
	}

	d := NewFrameworkDetector()
	frameworks, err := d.DetectFrameworks(dir)
	require.NoError(t, err)

	var found bool
	for _, f := range frameworks {
		if f.Name == "Go" {
			found = true
			assert.Greater(t, f.Confidence, 0.3)
		}
	}
	assert.True(t, found)
}

func TestCalculateConfidence_Bounds(t *testing.T) {
	items := map[string]bool{
		"manifest:package.json dependency: react": true,
		"source:usage: useState(":                 true,
	}
	conf := calculateConfidence(items)
	assert.Greater(t, conf, 0.5)
	assert.LessOrEqual(t, conf, 1.0)
}
