package blueprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pi22by7/semcore/internal/types"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestDetectEntryPoints_React(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/App.tsx", "export default function App() {}\n")

	b := NewBlueprintAnalyzer()
	entries, err := b.DetectEntryPoints(dir, []types.FrameworkInfo{{Name: "React", Confidence: 0.9}})
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	found := false
	for _, e := range entries {
		if e.FilePath == "src/App.tsx" {
			found = true
			assert.Equal(t, types.EntryWeb, e.EntryType)
			assert.Equal(t, "react", e.Framework)
		}
	}
	assert.True(t, found)
}

func TestDetectEntryPoints_RustLibraryVsCLI(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/main.rs", "fn main() {}\n")
	writeFile(t, dir, "src/lib.rs", "pub fn hello() {}\n")

	b := NewBlueprintAnalyzer()
	entries, err := b.DetectEntryPoints(dir, []types.FrameworkInfo{{Name: "Rust", Confidence: 0.95}})
	require.NoError(t, err)

	types_ := map[string]types.EntryPointType{}
	for _, e := range entries {
		types_[e.FilePath] = e.EntryType
	}
	assert.Equal(t, types.EntryCLI, types_["src/main.rs"])
	assert.Equal(t, types.EntryLibrary, types_["src/lib.rs"])
}

func TestMapKeyDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/components/Button.tsx", "export const Button = () => null;\n")
	writeFile(t, dir, "src/components/Card.tsx", "export const Card = () => null;\n")
	writeFile(t, dir, "src/utils/format.ts", "export function format() {}\n")

	b := NewBlueprintAnalyzer()
	dirs, err := b.MapKeyDirectories(dir)
	require.NoError(t, err)

	byType := map[string]types.KeyDirectory{}
	for _, d := range dirs {
		byType[d.Type] = d
	}
	require.Contains(t, byType, "components")
	assert.Equal(t, 2, byType["components"].FileCount)
	require.Contains(t, byType, "utils")
	assert.Equal(t, 1, byType["utils"].FileCount)
}

func TestBuildFeatureMap_PrimaryAndRelatedSplit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/auth/login.ts", "")
	writeFile(t, dir, "src/auth/session.ts", "")
	writeFile(t, dir, "src/auth/token.ts", "")

	b := NewBlueprintAnalyzer()
	maps, err := b.BuildFeatureMap(dir)
	require.NoError(t, err)

	var auth *types.FeatureMap
	for i := range maps {
		if maps[i].Feature == "authentication" {
			auth = &maps[i]
		}
	}
	require.NotNil(t, auth)
	assert.Len(t, auth.PrimaryFiles, 2)
	assert.Len(t, auth.RelatedFiles, 1)
	assert.NotEmpty(t, auth.PrimaryFiles)
}

func TestBuildFeatureMap_EmptyFeatureOmitted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/random/readme.txt", "")

	b := NewBlueprintAnalyzer()
	maps, err := b.BuildFeatureMap(dir)
	require.NoError(t, err)
	for _, m := range maps {
		assert.NotEmpty(t, m.PrimaryFiles)
	}
}
