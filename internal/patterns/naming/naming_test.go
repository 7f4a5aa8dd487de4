package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pi22by7/semcore/internal/types"
)

func TestAnalyzeConcepts_BucketsByRuleAndContext(t *testing.T) {
	concepts := []types.SemanticConcept{
		{Name: "fetchUser", ConceptType: types.ConceptFunction, FilePath: "a.ts"},
		{Name: "fetchOrder", ConceptType: types.ConceptFunction, FilePath: "a.ts"},
		{Name: "UserModel", ConceptType: types.ConceptClass, FilePath: "a.ts"},
	}

	a := NewNamingPatternAnalyzer()
	patterns := a.AnalyzeConcepts(concepts, "typescript")

	require.NotEmpty(t, patterns)
	var camel, pascal *types.Pattern
	for i := range patterns {
		switch patterns[i].ID {
		case "naming_camelCase_function":
			camel = &patterns[i]
		case "naming_PascalCase_type":
			pascal = &patterns[i]
		}
	}
	require.NotNil(t, camel)
	assert.Equal(t, 2, camel.Frequency)
	require.NotNil(t, pascal)
	assert.Equal(t, 1, pascal.Frequency)
}

func TestAnalyzeConcepts_UnknownLanguageFallsBackToMixed(t *testing.T) {
	concepts := []types.SemanticConcept{{Name: "anything", ConceptType: types.ConceptFunction, FilePath: "a.x"}}
	a := NewNamingPatternAnalyzer()
	patterns := a.AnalyzeConcepts(concepts, "brainfuck")
	require.Len(t, patterns, 1)
	assert.Equal(t, "naming_mixed_function", patterns[0].ID)
}

func TestDetectViolations_FlagsMismatchedName(t *testing.T) {
	concepts := []types.SemanticConcept{
		{Name: "fetchUser", ConceptType: types.ConceptFunction, FilePath: "a.ts", LineRange: types.LineRange{Start: 1, End: 1}},
		{Name: "fetchOrder", ConceptType: types.ConceptFunction, FilePath: "a.ts", LineRange: types.LineRange{Start: 2, End: 2}},
		{Name: "Fetch_Weird", ConceptType: types.ConceptFunction, FilePath: "b.ts", LineRange: types.LineRange{Start: 3, End: 3}},
	}
	a := NewNamingPatternAnalyzer()
	a.AnalyzeConcepts(concepts, "typescript")
	violations := a.DetectViolations(concepts, "typescript")
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "Fetch_Weird")
}

func TestGenerateRecommendations_EmptyFallback(t *testing.T) {
	a := NewNamingPatternAnalyzer()
	recs := a.GenerateRecommendations("typescript")
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "Consider establishing")
}

func TestLearnFromChanges_DetectsNewIdentifier(t *testing.T) {
	a := NewNamingPatternAnalyzer()
	patterns := a.LearnFromChanges("function old() {}", "function old() {}\nfunction newOne() {}", "javascript")
	require.Len(t, patterns, 1)
	assert.Equal(t, "naming_camelCase_unknown", patterns[0].ID)
}

func TestCalculateConfidence_CapsApplied(t *testing.T) {
	c := calculateConfidence(1000, 20, 0.9)
	assert.LessOrEqual(t, c, 1.0)
}
