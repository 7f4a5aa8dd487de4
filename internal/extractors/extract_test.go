package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pi22by7/semcore/internal/parser"
	"github.com/pi22by7/semcore/internal/types"
)

func conceptNames(cs []types.SemanticConcept) []string {
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		names = append(names, c.Name)
	}
	return names
}

func TestExtractConcepts_TypeScriptClassAndMethod(t *testing.T) {
	m := parser.NewManager()
	src := []byte(`
class Greeter {
	greet(name: string): string {
		return "hi " + name;
	}
}
`)
	tree, err := m.Parse(src, "typescript")
	require.NoError(t, err)

	concepts := ExtractConcepts(tree, "greeter.ts")
	require.NotEmpty(t, concepts)
	assert.Contains(t, conceptNames(concepts), "Greeter")
	assert.Contains(t, conceptNames(concepts), "greet")

	for _, c := range concepts {
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "greeter.ts", c.FilePath)
		assert.NoError(t, c.Valid())
	}
}

func TestExtractConcepts_PythonClass(t *testing.T) {
	m := parser.NewManager()
	src := []byte(`
class Animal:
    def speak(self):
        pass
`)
	tree, err := m.Parse(src, "python")
	require.NoError(t, err)

	concepts := ExtractConcepts(tree, "animal.py")
	names := conceptNames(concepts)
	assert.Contains(t, names, "Animal")
	assert.Contains(t, names, "speak")
}

func TestExtractConcepts_RustStruct(t *testing.T) {
	m := parser.NewManager()
	src := []byte(`
struct Point {
    x: i32,
    y: i32,
}

impl Point {
    fn new(x: i32, y: i32) -> Point {
        Point { x, y }
    }
}
`)
	tree, err := m.Parse(src, "rust")
	require.NoError(t, err)

	concepts := ExtractConcepts(tree, "point.rs")
	names := conceptNames(concepts)
	assert.Contains(t, names, "Point")
	assert.Contains(t, names, "new")

	for _, c := range concepts {
		if c.Name == "Point" && c.ConceptType == types.ConceptStruct {
			assert.Equal(t, types.ConfidenceAST, c.Confidence)
		}
	}
}

func TestExtractConcepts_GoFunctionAndStruct(t *testing.T) {
	m := parser.NewManager()
	src := []byte(`
package sample

type Widget struct {
	Name string
}

func NewWidget(name string) *Widget {
	return &Widget{Name: name}
}
`)
	tree, err := m.Parse(src, "go")
	require.NoError(t, err)

	concepts := ExtractConcepts(tree, "widget.go")
	names := conceptNames(concepts)
	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "NewWidget")
}

func TestExtractSQLConcepts_CreateTable(t *testing.T) {
	src := []byte(`
CREATE TABLE users (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT
);

SELECT id, name FROM users WHERE email IS NOT NULL;
`)
	concepts := ExtractSQLConcepts(src, "schema.sql")
	require.NotEmpty(t, concepts)

	var table *types.SemanticConcept
	for i := range concepts {
		if concepts[i].ConceptType == types.ConceptTable {
			table = &concepts[i]
		}
	}
	require.NotNil(t, table)
	assert.Equal(t, "users", table.Name)
	assert.Equal(t, "3", table.Metadata["column_count"])

	var idColumn *types.SemanticConcept
	for i := range concepts {
		if concepts[i].ConceptType == types.ConceptColumn && concepts[i].Name == "id" {
			idColumn = &concepts[i]
		}
	}
	require.NotNil(t, idColumn)
	assert.Equal(t, "true", idColumn.Metadata["primary_key"])

	foundQuery := false
	for _, c := range concepts {
		if c.ConceptType == types.ConceptQuery {
			foundQuery = true
		}
	}
	assert.True(t, foundQuery)
}

func TestExtractPHPConcepts_ClassWithDocblock(t *testing.T) {
	m := parser.NewManager()
	src := []byte(`<?php
/**
 * Represents a single invoice line.
 * @param int $quantity
 * @return float
 */
class InvoiceLine {
    public function total(): float {
        return 1.0;
    }
}
`)
	tree, err := m.Parse(src, "php")
	require.NoError(t, err)

	concepts := ExtractPHPConcepts(tree, "invoice.php")
	names := conceptNames(concepts)
	assert.Contains(t, names, "InvoiceLine")
	assert.Contains(t, names, "total")

	for _, c := range concepts {
		if c.Name == "InvoiceLine" {
			desc, ok := c.Metadata["docblock.description"]
			assert.True(t, ok)
			assert.Contains(t, desc, "invoice line")
		}
		if c.Name == "total" {
			assert.Equal(t, "public", c.Metadata["visibility"])
		}
	}
}

func TestExtractSvelteConcepts_ScriptAndComponentUsage(t *testing.T) {
	m := parser.NewManager()
	src := []byte(`
<script>
	function greet(name) {
		return "hi " + name;
	}
</script>

<Header title="hello" />
<p>plain text</p>
<custom-widget></custom-widget>
`)
	concepts := ExtractSvelteConcepts(m, src, "App.svelte")
	names := conceptNames(concepts)
	assert.Contains(t, names, "greet")
	assert.Contains(t, names, "Header")
	assert.Contains(t, names, "custom-widget")
	assert.NotContains(t, names, "p")
}

func TestExtractFallback_RegexScan(t *testing.T) {
	src := []byte(`
def handler(request):
    pass

class Thing:
    pass
`)
	concepts := ExtractFallback(src, "unknown.xyz")
	require.NotEmpty(t, concepts)
	for _, c := range concepts {
		assert.Equal(t, "regex_fallback", c.Metadata["source"])
		assert.Equal(t, types.ConfidenceFallback, c.Confidence)
	}
	names := conceptNames(concepts)
	assert.Contains(t, names, "handler")
	assert.Contains(t, names, "Thing")
}

func TestExtractFallback_NoMatchEmitsFileConcept(t *testing.T) {
	src := []byte("just some plain text with no recognizable code shapes\n")
	concepts := ExtractFallback(src, "notes.txt")
	require.Len(t, concepts, 1)
	assert.Equal(t, types.ConceptFile, concepts[0].ConceptType)
	assert.Equal(t, "notes", concepts[0].Name)
}

func TestExtractFromFile_DispatchesByLanguage(t *testing.T) {
	m := parser.NewManager()
	ctx := context.Background()

	goSrc := []byte("package main\n\nfunc main() {}\n")
	concepts := ExtractFromFile(ctx, m, goSrc, "main.go", "go")
	assert.Contains(t, conceptNames(concepts), "main")

	sqlSrc := []byte("CREATE TABLE t (id INTEGER);")
	concepts = ExtractFromFile(ctx, m, sqlSrc, "t.sql", "sql")
	assert.Contains(t, conceptNames(concepts), "t")

	unsupported := []byte("fn main() {}\n")
	concepts = ExtractFromFile(ctx, m, unsupported, "main.zig", "zig")
	require.NotEmpty(t, concepts)
	assert.Equal(t, "regex_fallback", concepts[0].Metadata["source"])
}
