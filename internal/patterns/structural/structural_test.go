package structural

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pi22by7/semcore/internal/relationships"
	"github.com/pi22by7/semcore/internal/types"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestAnalyzeCodebaseStructure_DetectsMVC(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "models/UserModel.ts", "")
	writeFile(t, dir, "views/UserView.ts", "")
	writeFile(t, dir, "controllers/UserController.ts", "")

	a := NewStructuralPatternAnalyzer()
	patterns, err := a.AnalyzeCodebaseStructure(dir)
	require.NoError(t, err)

	found := false
	for _, p := range patterns {
		if p.ID == "structural_MVC" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyzeConceptStructures_LargeFile(t *testing.T) {
	var concepts []types.SemanticConcept
	for i := 0; i < 12; i++ {
		concepts = append(concepts, types.SemanticConcept{
			Name: "f", ConceptType: types.ConceptFunction, FilePath: "big.go",
			LineRange: types.LineRange{Start: uint32(i + 1), End: uint32(i + 1)},
		})
	}
	a := NewStructuralPatternAnalyzer()
	patterns := a.AnalyzeConceptStructures(concepts)

	found := false
	for _, p := range patterns {
		if p.ID == "structural_large_file_big.go" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectViolations_GodObject(t *testing.T) {
	class := types.SemanticConcept{
		Name: "Big", ConceptType: types.ConceptClass, FilePath: "a.go",
		LineRange: types.LineRange{Start: 1, End: 1000},
	}
	concepts := []types.SemanticConcept{class}
	for i := 0; i < 25; i++ {
		concepts = append(concepts, types.SemanticConcept{
			Name: "m", ConceptType: types.ConceptMethod, FilePath: "a.go",
			LineRange: types.LineRange{Start: uint32(10 + i), End: uint32(10 + i)},
		})
	}
	a := NewStructuralPatternAnalyzer()
	violations := a.DetectViolations(concepts)

	found := false
	for _, v := range violations {
		if strings.Contains(v, "God Object") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectViolations_HighCoupling(t *testing.T) {
	c := types.SemanticConcept{
		Name: "hub", ConceptType: types.ConceptClass, FilePath: "a.go",
		LineRange:     types.LineRange{Start: 1, End: 5},
		Relationships: map[string]string{},
	}
	for i := 0; i < 11; i++ {
		c.Relationships[string(rune('a'+i))] = "target"
	}
	a := NewStructuralPatternAnalyzer()
	violations := a.DetectViolations([]types.SemanticConcept{c})

	found := false
	for _, v := range violations {
		if strings.Contains(v, "High coupling") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectCycles_FindsCircularDependency(t *testing.T) {
	concepts := []types.SemanticConcept{
		{Name: "A", FilePath: "a.go", Relationships: map[string]string{"depends_on": "B"}},
		{Name: "B", FilePath: "b.go", Relationships: map[string]string{"depends_on": "A"}},
	}
	a := NewStructuralPatternAnalyzer()
	patterns := a.AnalyzeConceptStructures(concepts)

	found := false
	for _, p := range patterns {
		if strings.Contains(p.Description, "Circular dependency") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectLayerViolations_RealRelationshipLearner(t *testing.T) {
	concepts := []types.SemanticConcept{
		{
			ID:          "presentation-controller",
			Name:        "UserController",
			ConceptType: types.ConceptClass,
			FilePath:    filepath.Join("src", "presentation", "UserController.ts"),
			Metadata:    map[string]string{"imports": "UserRepository"},
		},
		{
			ID:          "infra-repository",
			Name:        "UserRepository",
			ConceptType: types.ConceptClass,
			FilePath:    filepath.Join("src", "infrastructure", "UserRepository.ts"),
		},
	}

	learner := relationships.NewRelationshipLearner()
	edges := learner.Learn(concepts)
	relationships.ApplyToConcepts(concepts, edges)

	a := NewStructuralPatternAnalyzer()
	violations := a.DetectViolations(concepts)

	found := false
	for _, v := range violations {
		if strings.Contains(v, "Layer violation") {
			found = true
		}
	}
	assert.True(t, found, "expected a layer violation from real relationship-learned import edges, got: %v", violations)
}

func TestCalculateModularityScore_HealthyCodebase(t *testing.T) {
	var concepts []types.SemanticConcept
	for f := 0; f < 5; f++ {
		for i := 0; i < 5; i++ {
			concepts = append(concepts, types.SemanticConcept{
				Name: "f", ConceptType: types.ConceptFunction, FilePath: filepath.Join("pkg", string(rune('a'+f))+".go"),
			})
		}
	}
	score := CalculateModularityScore(concepts)
	assert.GreaterOrEqual(t, score, 0.6)
}
