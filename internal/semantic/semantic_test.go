package semantic

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pi22by7/semcore/internal/config"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestAnalyzeCodebase_ExtractsConceptsAndLanguages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")

	a := NewSemanticAnalyzer(config.Default())
	result, err := a.AnalyzeCodebase(context.Background(), dir)
	require.NoError(t, err)
	assert.Contains(t, result.Languages, "go")
	assert.NotEmpty(t, result.Concepts)
}

func TestAnalyzeFileContent_ReturnsConcepts(t *testing.T) {
	a := NewSemanticAnalyzer(config.Default())
	concepts := a.AnalyzeFileContent(context.Background(), "a.go", "package main\n\nfunc doWork() {}\n")
	assert.NotEmpty(t, concepts)
}

func TestLearnFromCodebase_PopulatesRelationships(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package main\n\nfunc getUser() {}\nfunc setUser() {}\n")

	a := NewSemanticAnalyzer(config.Default())
	concepts, err := a.LearnFromCodebase(context.Background(), dir)
	require.NoError(t, err)
	require.NotEmpty(t, concepts)

	found := false
	for _, c := range concepts {
		if len(a.GetConceptRelationships(c.ID)) > 0 {
			found = true
		}
	}
	assert.True(t, found)
}
