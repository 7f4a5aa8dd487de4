package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pi22by7/semcore/internal/types"
)

func TestCalculate_CountsAndAverages(t *testing.T) {
	concepts := []types.SemanticConcept{
		{ConceptType: types.ConceptFunction, FilePath: "a.go", LineRange: types.LineRange{Start: 1, End: 10}, Confidence: 0.8},
		{ConceptType: types.ConceptFunction, FilePath: "a.go", LineRange: types.LineRange{Start: 12, End: 20}, Confidence: 0.8},
		{ConceptType: types.ConceptClass, FilePath: "b.go", LineRange: types.LineRange{Start: 1, End: 5}, Confidence: 0.9},
	}

	a := NewComplexityAnalyzer()
	metrics := a.Calculate(concepts)

	assert.Equal(t, uint32(2), metrics.FunctionCount)
	assert.Equal(t, uint32(1), metrics.ClassCount)
	assert.Equal(t, uint32(2), metrics.FileCount)
	assert.InDelta(t, 1.0, metrics.AvgFunctionsPerFile, 0.01)
}

func TestCalculate_CyclomaticCountsDecisionPoints(t *testing.T) {
	concepts := []types.SemanticConcept{
		{
			ConceptType: types.ConceptFunction,
			FilePath:    "a.go",
			LineRange:   types.LineRange{Start: 1, End: 5},
			Confidence:  1.0,
			Metadata:    map[string]string{"body": "if x { } else if y && z { }"},
		},
	}
	a := NewComplexityAnalyzer()
	metrics := a.Calculate(concepts)
	assert.Greater(t, metrics.CyclomaticComplexity, 1.0)
}

func TestCalculate_EmptyInput(t *testing.T) {
	a := NewComplexityAnalyzer()
	metrics := a.Calculate(nil)
	assert.Equal(t, uint32(0), metrics.FunctionCount)
	assert.Equal(t, 1.0, metrics.CyclomaticComplexity)
	assert.Equal(t, 1.0, metrics.CognitiveComplexity)
}
