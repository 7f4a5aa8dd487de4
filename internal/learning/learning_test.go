package learning

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pi22by7/semcore/internal/config"
	"github.com/pi22by7/semcore/internal/types"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestLearnFromCodebase_ProducesSurvivingPatterns(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 4; i++ {
		writeFile(t, dir, filepath.Join("src", "file"+string(rune('a'+i))+".go"),
			"package src\n\nfunc fetchUser() {}\nfunc fetchOrder() {}\n")
	}

	engine := NewPatternLearningEngine(config.Default())
	patterns, err := engine.LearnFromCodebase(context.Background(), dir)
	require.NoError(t, err)
	assert.NotEmpty(t, patterns)

	stored := engine.LearnedPatterns()
	assert.NotEmpty(t, stored)
}

func TestAnalyzePatterns_ReturnsBundledResult(t *testing.T) {
	engine := NewPatternLearningEngine(config.Default())
	concepts := []types.SemanticConcept{
		{Name: "fetchUser", ConceptType: types.ConceptFunction, FilePath: "a.go"},
		{Name: "fetchOrder", ConceptType: types.ConceptFunction, FilePath: "a.go"},
	}
	result := engine.AnalyzePatterns(concepts)
	assert.NotNil(t, result.NamingPatterns)
}

func TestLearnFromChanges_DetectsStructuralChange(t *testing.T) {
	engine := NewPatternLearningEngine(config.Default())
	oldCode := "function a() {}\n"
	newCode := "function a() {}\nfunction b() {}\nfunction c() {}\nfunction d() {}\n"
	patterns := engine.LearnFromChanges(oldCode, newCode, "a.js", "javascript")
	found := false
	for _, p := range patterns {
		if p.PatternType == "structural" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLearnFromAnalysis_MalformedJSONReturnsFalse(t *testing.T) {
	engine := NewPatternLearningEngine(config.Default())
	assert.False(t, engine.LearnFromAnalysis("not json"))
}

func TestLearnFromAnalysis_IngestsEmbeddedPatterns(t *testing.T) {
	engine := NewPatternLearningEngine(config.Default())
	payload := `{"patterns":[{"id":"p1","pattern_type":"naming","description":"camelCase function names","frequency":5,"confidence":0.9}]}`
	ok := engine.LearnFromAnalysis(payload)
	require.True(t, ok)
	assert.NotEmpty(t, engine.LearnedPatterns())
}

func TestUpdateFromChange_HandlesDeleteAndUnknownTypes(t *testing.T) {
	engine := NewPatternLearningEngine(config.Default())
	assert.True(t, engine.UpdateFromChange(`{"type":"delete","path":"a.go"}`))
	assert.True(t, engine.UpdateFromChange(`{"type":"some_weird_type","path":"b.go"}`))
	assert.False(t, engine.UpdateFromChange("not json"))
}

func TestPredictApproach_DelegatesToPredictor(t *testing.T) {
	engine := NewPatternLearningEngine(config.Default())
	result := engine.PredictApproach("Build a simple CRUD application", `{"scale":"small"}`)
	assert.Equal(t, "CRUD Application", result.Approach)
}
