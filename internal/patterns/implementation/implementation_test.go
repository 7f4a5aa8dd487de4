package implementation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pi22by7/semcore/internal/types"
)

func TestAnalyzeConcepts_DetectsSingleton(t *testing.T) {
	concepts := []types.SemanticConcept{
		{Name: "getInstance", ConceptType: types.ConceptMethod, FilePath: "s.go"},
		{Name: "Singleton", ConceptType: types.ConceptClass, FilePath: "s.go", Metadata: map[string]string{"kind": "static_instance"}},
	}
	a := NewImplementationPatternAnalyzer()
	patterns := a.AnalyzeConcepts(concepts)

	found := false
	for _, p := range patterns {
		if p.ID == "implementation_singleton" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyzeCode_DetectsBuilderFromRegex(t *testing.T) {
	code := `obj.withName("x").setAge(3).build();`
	a := NewImplementationPatternAnalyzer()
	patterns := a.AnalyzeCode(code, "b.go")

	found := false
	for _, p := range patterns {
		if p.ID == "implementation_builder" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectAntipatterns_GodObject(t *testing.T) {
	class := types.SemanticConcept{Name: "Big", ConceptType: types.ConceptClass, FilePath: "a.go"}
	concepts := []types.SemanticConcept{class}
	for i := 0; i < 25; i++ {
		concepts = append(concepts, types.SemanticConcept{Name: "m", ConceptType: types.ConceptMethod, FilePath: "a.go"})
	}
	a := NewImplementationPatternAnalyzer()
	antipatterns := a.DetectAntipatterns(concepts)

	found := false
	for _, p := range antipatterns {
		if strings.Contains(p, "God Object") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectAntipatterns_CopyPaste(t *testing.T) {
	concepts := []types.SemanticConcept{
		{Name: "processTest", ConceptType: types.ConceptFunction, FilePath: "a.go"},
		{Name: "processImpl", ConceptType: types.ConceptFunction, FilePath: "a.go"},
		{Name: "processService", ConceptType: types.ConceptFunction, FilePath: "a.go"},
		{Name: "processController", ConceptType: types.ConceptFunction, FilePath: "a.go"},
	}
	a := NewImplementationPatternAnalyzer()
	antipatterns := a.DetectAntipatterns(concepts)
	require.NotEmpty(t, antipatterns)

	found := false
	for _, p := range antipatterns {
		if strings.Contains(p, "Copy-Paste") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectAntipatterns_MagicNumber(t *testing.T) {
	concepts := []types.SemanticConcept{
		{Name: "42", ConceptType: types.ConceptConstant, FilePath: "a.go"},
		{Name: "MaxRetries", ConceptType: types.ConceptConstant, FilePath: "a.go"},
	}
	a := NewImplementationPatternAnalyzer()
	antipatterns := a.DetectAntipatterns(concepts)

	found := false
	for _, p := range antipatterns {
		if strings.Contains(p, "Magic Number") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectAntipatterns_LongParameterList(t *testing.T) {
	concepts := []types.SemanticConcept{
		{Name: "doStuff", ConceptType: types.ConceptFunction, FilePath: "a.go", Metadata: map[string]string{"parameters": "7"}},
	}
	a := NewImplementationPatternAnalyzer()
	antipatterns := a.DetectAntipatterns(concepts)
	require.Len(t, antipatterns, 1)
	assert.Contains(t, antipatterns[0], "Long Parameter List")
}
